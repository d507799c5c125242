package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDeclaresEveryTable(t *testing.T) {
	ddl := Schema()
	for _, table := range []string{
		"manufacturer", "socket", "form_factor", "ram_base", "connector",
		"cpu", "graphics_chip", "gpu", "gpu_connector", "motherboard",
		"motherboard_connector", "ram", "storage", "psu", "pc_case", "cooler", "build",
	} {
		assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS "+table+" (", "table %s", table)
	}
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range strings.Split(Schema(), ";") {
		stmt = strings.TrimSpace(stmt)
		if strings.HasPrefix(stmt, "CREATE") {
			assert.Contains(t, stmt, "IF NOT EXISTS")
		}
	}
}
