package main

// General API documentation for swaggo. Run `make swagger-gen` to regenerate.
//
// @title           assistd API
// @version         1.0
// @description     Observability sidecar for the local assistant process.
//
// @contact.name   assistd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
