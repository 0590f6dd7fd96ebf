// Package handler mounts the storefront's HTTP endpoints. Every handler
// implements MountAPI and is registered with the router's registry.
package handler
