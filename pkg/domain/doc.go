// Package domain contains the entities shared between the gathering
// pipeline, the result storage and the CLI. They carry no infrastructure
// concerns so every layer can depend on them.
package domain
