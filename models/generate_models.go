package models

import (
	"fmt"
	"log"
	"os"
	"reflect"
	"strings"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/*
Model generation usage:

	GENERATE_MODELS=true go run .

migrates every table below, prints the column mismatch report and writes typed
query helpers into ./generated. GENERATE_COLUMN_REPORT=true only prints the report.
*/

// All lists every persisted model in migration order
func All() []interface{} {
	return []interface{}{
		&Category{},
		&Technology{},
		&Project{},
	}
}

// tableModels maps table names to the model describing them
var tableModels = map[string]interface{}{
	"categories":   Category{},
	"technologies": Technology{},
	"projects":     Project{},
}

// Migrate creates or alters the tables for every model, including the project_technology join table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto-migrate models: %w", err)
	}
	return nil
}

func GenerateModels(db *gorm.DB, outPath string) error {
	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Info,
			Colorful: true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if err := Migrate(db); err != nil {
		return err
	}

	GenerateColumnMismatchReport(db)

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface | gen.WithoutContext,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Category{}, Technology{}, Project{})
	g.Execute()

	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport prints database columns that no model field maps to
func GenerateColumnMismatchReport(db *gorm.DB) {
	fmt.Println("=== COLUMN MISMATCH REPORT ===")

	total := 0
	for tableName, model := range tableModels {
		fmt.Printf("\n--- Table: %s ---\n", tableName)

		columnTypes, err := db.Migrator().ColumnTypes(tableName)
		if err != nil {
			fmt.Printf("Error getting columns for table %s: %v\n", tableName, err)
			continue
		}

		dbColumns := make([]string, 0, len(columnTypes))
		for _, ct := range columnTypes {
			dbColumns = append(dbColumns, ct.Name())
		}

		mismatches := findColumnMismatches(dbColumns, modelColumns(db, model))
		if len(mismatches) == 0 {
			fmt.Println("All columns are accounted for in the model.")
			continue
		}

		fmt.Printf("Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Printf("  - %s\n", col)
		}
		total += len(mismatches)
	}

	fmt.Printf("\n=== SUMMARY ===\n")
	fmt.Printf("Total mismatched columns across all tables: %d\n", total)
}

// modelColumns resolves column names through gorm's naming strategy, falling back to `db` tags
func modelColumns(db *gorm.DB, model interface{}) []string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err == nil && stmt.Schema != nil {
		return stmt.Schema.DBNames
	}

	var columns []string
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, strings.Split(tag, ",")[0])
		}
	}
	return columns
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
