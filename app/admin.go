package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrengworks/catalog/internal/client"
	"github.com/mrengworks/catalog/internal/config"
	"github.com/mrengworks/catalog/internal/storefront"
)

// adminFlags are shared by the admin subcommands.
type adminFlags struct {
	username string
	password string

	id            string
	name          string
	desc          string
	price         string
	sku           string
	stock         int
	images        []string
	replaceImages bool

	yes bool

	address    string
	mapSrc     string
	about      string
	privacy    string
	disclaimer string
}

var af adminFlags

// adminSession is what every admin subcommand works with.
type adminSession struct {
	store client.DurableStore
	ctrl  *client.Controller
}

func (s *adminSession) Close() error {
	return s.store.Close()
}

func openAdmin(in io.Reader, out io.Writer) (*adminSession, error) {
	c, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, err
	}

	store, err := client.OpenBoltStore(c.Client.StateFile)
	if err != nil {
		return nil, err
	}

	session, err := client.NewSession(store, client.PolicyFromConfig(c.Client.RestoreSession))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	api := client.NewAPI(c.Client.ServerURL, session)
	api.SetDebug(c.DevMode)
	api.SetTimeout(c.Client.Timeout)

	r := client.NewTextRenderer(out)

	ctrl := client.NewController(client.Options{
		API:       api,
		Session:   session,
		Renderer:  r,
		Notifier:  r,
		Confirmer: promptConfirmer(in, out),
		Shaping:   storefront.NewOptions(c.Storefront, c.Client.ServerURL),
		Slots:     c.Upload.MaxFiles,
	})

	return &adminSession{store: store, ctrl: ctrl}, nil
}

// promptConfirmer asks on out and reads y/N from in. --yes skips the question.
func promptConfirmer(in io.Reader, out io.Writer) client.Confirmer {
	return client.ConfirmFunc(func(prompt string) bool {
		if af.yes {
			return true
		}

		fmt.Fprintf(out, "%s [y/N] ", prompt)

		line, _ := bufio.NewReader(in).ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))

		return answer == "y" || answer == "yes"
	})
}

// withAdmin opens the admin session for the duration of fn.
func withAdmin(fn func(ctx context.Context, ctrl *client.Controller) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := openAdmin(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer s.Close()

		return fn(cmd.Context(), s.ctrl)
	}
}

func init() { //nolint: gochecknoinits
	loginCmd.Flags().StringVarP(&af.username, "username", "u", "admin", "Admin username")
	loginCmd.Flags().StringVarP(&af.password, "password", "p", "", "Admin password")
	_ = loginCmd.MarkFlagRequired("password")

	productCmd.Flags().StringVar(&af.id, "id", "", "Update the product with this id instead of creating one")
	productCmd.Flags().StringVar(&af.name, "name", "", "Product name")
	productCmd.Flags().StringVar(&af.desc, "desc", "", "Product description")
	productCmd.Flags().StringVar(&af.price, "price", "", "Display price")
	productCmd.Flags().StringVar(&af.sku, "sku", "", "SKU, generated when empty")
	productCmd.Flags().IntVar(&af.stock, "stock", 0, "Units in stock")
	productCmd.Flags().StringSliceVar(&af.images, "image", nil, "Image file, repeatable")
	productCmd.Flags().BoolVar(&af.replaceImages, "replace-images", false, "Replace instead of append images on update")

	deleteCmd.Flags().BoolVarP(&af.yes, "yes", "y", false, "Do not ask for confirmation")

	locationCmd.Flags().StringVar(&af.address, "address", "", "Company address")
	locationCmd.Flags().StringVar(&af.mapSrc, "map", "", "Embedded map URL")

	companyInfoCmd.Flags().StringVar(&af.about, "about", "", "About text")
	companyInfoCmd.Flags().StringVar(&af.privacy, "privacy", "", "Privacy policy")
	companyInfoCmd.Flags().StringVar(&af.disclaimer, "disclaimer", "", "Disclaimer")

	adminCmd.AddCommand(loginCmd, logoutCmd, dashboardCmd, listCmd, storefrontCmd, settingsCmd,
		productCmd, deleteCmd, locationCmd, companyInfoCmd)
	rootCmd.AddCommand(adminCmd)
}

var (
	adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Manage the catalog through its API",
	}

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token in the state file",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
			return ctrl.HandleLogin(ctx, af.username, af.password)
		}),
	}

	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(_ context.Context, ctrl *client.Controller) error {
			return ctrl.Logout()
		}),
	}

	dashboardCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Open the dashboard if the stored session allows it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openAdmin(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := s.ctrl.Dashboard(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !st.Ready {
				fmt.Fprintln(out, "not logged in, run: catalog admin login")
				return nil
			}

			fmt.Fprintf(out, "logged in as %s\n", st.User.Username)

			return nil
		},
	}

	listCmd = &cobra.Command{
		Use:   "products",
		Short: "List products as the admin panel shows them",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
			return ctrl.LoadAdminProducts(ctx)
		}),
	}

	storefrontCmd = &cobra.Command{
		Use:   "storefront",
		Short: "List products as the storefront shows them",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
			return ctrl.RenderStorefront(ctx)
		}),
	}

	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Show the site settings",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
			return ctrl.LoadAdminSettings(ctx)
		}),
	}

	productCmd = &cobra.Command{
		Use:   "product",
		Short: "Create a product, or update one with --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openAdmin(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer s.Close()

			for i, path := range af.images {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}

				if err = s.ctrl.StageImage(i, filepath.Base(path), data); err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
			}

			v := client.FormValues{
				"id":    af.id,
				"name":  af.name,
				"desc":  af.desc,
				"price": af.price,
				"sku":   af.sku,
			}

			if cmd.Flags().Changed("stock") {
				v["stock"] = fmt.Sprint(af.stock)
			}

			if af.replaceImages {
				v["replaceImages"] = "true"
			}

			return submit(cmd.Context(), s.ctrl, client.FormAddProduct, v)
		},
	}

	deleteCmd = &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
				return ctrl.DeleteProduct(ctx, args[0])
			})(cmd, args)
		},
	}

	locationCmd = &cobra.Command{
		Use:   "location",
		Short: "Set the company address and map",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
			return submit(ctx, ctrl, client.FormLocation, client.FormValues{
				"address": af.address,
				"map":     af.mapSrc,
			})
		}),
	}

	companyInfoCmd = &cobra.Command{
		Use:   "company-info",
		Short: "Set the about, privacy and disclaimer texts",
		Args:  cobra.NoArgs,
		RunE: withAdmin(func(ctx context.Context, ctrl *client.Controller) error {
			return submit(ctx, ctrl, client.FormCompanyInfo, client.FormValues{
				"about":      af.about,
				"privacy":    af.privacy,
				"disclaimer": af.disclaimer,
			})
		}),
	}
)

func submit(ctx context.Context, ctrl *client.Controller, form string, v client.FormValues) error {
	if err := ctrl.InitAdminForms(ctx); err != nil {
		return err
	}

	return ctrl.Submit(ctx, form, v)
}
