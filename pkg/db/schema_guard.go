package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// ColumnType represents expected column schema
type ColumnType struct {
	Name     string
	DataType string
	Nullable bool
}

// TableSchema represents expected table structure
type TableSchema struct {
	Name    string
	Columns []ColumnType
}

// SchemaGuard validates database schema matches expectations
type SchemaGuard struct {
	db *sql.DB
}

// NewSchemaGuard creates a new schema guard
func NewSchemaGuard(db *sql.DB) *SchemaGuard {
	return &SchemaGuard{db: db}
}

// ValidateTable validates a table's schema
func (sg *SchemaGuard) ValidateTable(ctx context.Context, schema TableSchema) error {
	query := `
		SELECT COLUMN_NAME, DATA_TYPE, IS_NULLABLE
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE()
		AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := sg.db.QueryContext(ctx, query, schema.Name)
	if err != nil {
		return fmt.Errorf("failed to query table schema for %s: %w", schema.Name, err)
	}
	defer rows.Close()

	actualColumns := make(map[string]ColumnType)
	for rows.Next() {
		var colName, dataType, isNullable string
		if err := rows.Scan(&colName, &dataType, &isNullable); err != nil {
			return fmt.Errorf("failed to scan column info: %w", err)
		}
		actualColumns[colName] = ColumnType{
			Name:     colName,
			DataType: dataType,
			Nullable: isNullable == "YES",
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read column info: %w", err)
	}

	if len(actualColumns) == 0 {
		return fmt.Errorf("table %s does not exist or has no columns", schema.Name)
	}

	for _, expectedCol := range schema.Columns {
		actualCol, exists := actualColumns[expectedCol.Name]
		if !exists {
			return fmt.Errorf("table %s missing expected column: %s", schema.Name, expectedCol.Name)
		}

		if !matchesDataType(actualCol.DataType, expectedCol.DataType) {
			return fmt.Errorf("table %s column %s has type %s, expected %s",
				schema.Name, expectedCol.Name, actualCol.DataType, expectedCol.DataType)
		}
	}

	return nil
}

// matchesDataType treats varchar(191) as varchar, decimal(12,2) as decimal, etc.
func matchesDataType(actual, expected string) bool {
	return strings.HasPrefix(strings.ToLower(actual), strings.ToLower(expected))
}

// ValidateTables validates multiple tables
func (sg *SchemaGuard) ValidateTables(ctx context.Context, schemas []TableSchema) error {
	for _, schema := range schemas {
		if err := sg.ValidateTable(ctx, schema); err != nil {
			return err
		}
	}
	return nil
}

// ExpectedSchema lists the tables the repositories read and write
func ExpectedSchema() []TableSchema {
	return []TableSchema{
		{Name: "users", Columns: []ColumnType{
			{Name: "user_id", DataType: "int"},
			{Name: "username", DataType: "varchar"},
			{Name: "password_hash", DataType: "varchar"},
		}},
		{Name: "languages", Columns: []ColumnType{
			{Name: "language_code", DataType: "varchar"},
			{Name: "name", DataType: "varchar"},
		}},
		{Name: "contractors", Columns: []ColumnType{
			{Name: "contractor_id", DataType: "int"},
			{Name: "user_id", DataType: "int"},
			{Name: "name", DataType: "varchar"},
		}},
		{Name: "transaction_statuses", Columns: []ColumnType{
			{Name: "status_id", DataType: "int"},
			{Name: "code", DataType: "varchar"},
		}},
		{Name: "transaction_status_colors", Columns: []ColumnType{
			{Name: "status_id", DataType: "int"},
			{Name: "color", DataType: "varchar"},
		}},
		{Name: "transaction_status_translations", Columns: []ColumnType{
			{Name: "status_id", DataType: "int"},
			{Name: "language_code", DataType: "varchar"},
			{Name: "display_name", DataType: "varchar"},
		}},
		{Name: "transaction_types", Columns: []ColumnType{
			{Name: "transaction_type_id", DataType: "int"},
			{Name: "code", DataType: "varchar"},
		}},
		{Name: "transaction_type_translations", Columns: []ColumnType{
			{Name: "transaction_type_id", DataType: "int"},
			{Name: "language_code", DataType: "varchar"},
			{Name: "display_name", DataType: "varchar"},
		}},
		{Name: "transactions", Columns: []ColumnType{
			{Name: "transaction_id", DataType: "int"},
			{Name: "user_id", DataType: "int"},
			{Name: "contractor_from_id", DataType: "int"},
			{Name: "contractor_to_id", DataType: "int"},
			{Name: "amount", DataType: "decimal"},
			{Name: "transaction_type_id", DataType: "int"},
			{Name: "status_id", DataType: "int"},
			{Name: "created_at", DataType: "datetime"},
			{Name: "updated_at", DataType: "datetime"},
		}},
	}
}
