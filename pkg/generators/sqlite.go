package generators

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
	_ "modernc.org/sqlite"

	"github.com/arthur-debert/sprout/pkg/errors"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/substitute"
	"github.com/arthur-debert/sprout/pkg/types"
)

type sqliteGenerator struct{}

// NewSQLite returns the database generator. Schema definitions come from
// declarative <table> elements and <sql> blocks in the generator config;
// file content supplies additional statements, typically seed data.
func NewSQLite() Generator {
	return &sqliteGenerator{}
}

func (g *sqliteGenerator) Noun() string { return "database" }

func (g *sqliteGenerator) Generate(node *types.SchemaNode, path string, vars map[string]string) error {
	script, err := buildScript(node, vars)
	if err != nil {
		return err
	}

	// SQLite appends to an existing database rather than replacing it.
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return errors.Wrap(err, errors.ErrGenerate, "failed to remove existing database")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return errors.Wrap(err, errors.ErrGenerate, "failed to create database")
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	// Force the connection open so an empty script still creates the file.
	if err := db.Ping(); err != nil {
		return errors.Wrap(err, errors.ErrGenerate, "failed to create database")
	}

	if script != "" {
		if _, err := db.Exec(script); err != nil {
			return errors.Wrap(err, errors.ErrGenerate, "sql execution failed")
		}
	}

	logger := logging.GetLogger("generators")
	logger.Debug().Str("path", path).Msg("generated database")
	return nil
}

// buildScript assembles the SQL to execute: declarative tables first,
// then <sql> blocks, then file content. Table definitions are taken
// literally; <sql> blocks and content go through variable substitution.
func buildScript(node *types.SchemaNode, vars map[string]string) (string, error) {
	var b strings.Builder

	if cfg := strings.TrimSpace(node.GenerateConfig); cfg != "" {
		tables, blocks, err := parseDatabaseConfig(cfg)
		if err != nil {
			return "", err
		}
		for _, stmt := range tables {
			b.WriteString(stmt)
			b.WriteByte('\n')
		}
		for _, block := range blocks {
			b.WriteString(substitute.Substitute(block, vars))
			b.WriteByte('\n')
		}
	}

	if content := strings.TrimSpace(node.Content); content != "" {
		if processed := substitute.Substitute(content, vars); processed != "" {
			b.WriteString(processed)
			b.WriteByte('\n')
		}
	}

	return b.String(), nil
}

// parseDatabaseConfig reads the serialized generator config: a sequence
// of <table> and <sql> elements. Anything else is ignored.
func parseDatabaseConfig(cfg string) (tables []string, blocks []string, err error) {
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromString("<config>" + cfg + "</config>"); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrGenerate, "invalid sqlite generator config")
	}

	for _, el := range doc.Root().ChildElements() {
		switch el.Tag {
		case "table":
			if stmt := tableStatement(el); stmt != "" {
				tables = append(tables, stmt)
			}
		case "sql":
			if block := sqlText(el); block != "" {
				blocks = append(blocks, block)
			}
		}
	}
	return tables, blocks, nil
}

// tableStatement converts one <table> element into CREATE TABLE DDL.
// Tables without a name or without columns produce no statement.
func tableStatement(el *etree.Element) string {
	name := el.SelectAttrValue("name", "")
	if name == "" {
		return ""
	}

	var cols []string
	for _, col := range el.SelectElements("column") {
		if def := columnDef(col); def != "" {
			cols = append(cols, def)
		}
	}
	if len(cols) == 0 {
		return ""
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", name, strings.Join(cols, ",\n  "))
}

// columnDef renders one <column> element as a SQL column definition.
// The type defaults to TEXT.
func columnDef(col *etree.Element) string {
	name := col.SelectAttrValue("name", "")
	if name == "" {
		return ""
	}

	def := name + " " + col.SelectAttrValue("type", "TEXT")
	if col.SelectAttrValue("primary-key", "") == "true" {
		def += " PRIMARY KEY"
	}
	if col.SelectAttrValue("unique", "") == "true" {
		def += " UNIQUE"
	}
	if col.SelectAttrValue("not-null", "") == "true" {
		def += " NOT NULL"
	}
	if v := col.SelectAttrValue("default", ""); v != "" {
		def += fmt.Sprintf(" DEFAULT '%s'", v)
	}
	return def
}

// sqlText extracts the statements inside a <sql> element, preferring
// CDATA when present.
func sqlText(el *etree.Element) string {
	var text, cdata strings.Builder
	hasCData := false

	for _, tok := range el.Child {
		cd, ok := tok.(*etree.CharData)
		if !ok {
			continue
		}
		if cd.IsCData() {
			hasCData = true
			cdata.WriteString(cd.Data)
		} else {
			text.WriteString(cd.Data)
		}
	}

	if hasCData {
		return strings.TrimSpace(cdata.String())
	}
	return strings.TrimSpace(text.String())
}
