// Package migrations embebe los archivos SQL de migración.
package migrations

import "embed"

// SchemaFS contiene las migraciones del esquema base.
//
//go:embed schema/*.sql
var SchemaFS embed.FS

// SchemaDir es el directorio dentro de SchemaFS con las migraciones.
const SchemaDir = "schema"
