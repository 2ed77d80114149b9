package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrEmptyTokenSecret error if config auth.tokenSecret is empty.
	ErrEmptyTokenSecret = errors.New("toml config auth.tokensecret can not be empty")

	// ErrEmptyUploadDir error if config upload.dir is empty.
	ErrEmptyUploadDir = errors.New("toml config upload.dir can not be empty")

	// ErrUnknownEngine error if config db.engine is not supported.
	ErrUnknownEngine = errors.New("toml config db.engine must be sqlite, mysql, postgres or mongodb")
)
