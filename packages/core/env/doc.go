// Package env loads the environment tier of the variable store: the
// JetBrains-format http-client.env.json file (with its private override
// sibling) and plain .env files.
package env
