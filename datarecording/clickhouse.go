package datarecording

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/fatih/structs"
	"github.com/tebeka/atexit"
)

// clickHouseWriter records data into a ClickHouse database over the native
// protocol, using prepared batches. Unlike the SQLite writer it is safe for
// concurrent inserts.
type clickHouseWriter struct {
	conn clickhouse.Conn

	mu         sync.Mutex
	tables     map[string]*table
	batchSize  int
	entryCount int

	execRecorder *execRecorder
}

// NewClickHouseRecorder creates a DataRecorder that writes into the given
// ClickHouse database. addr is a host:port pair for the native protocol
// endpoint.
func NewClickHouseRecorder(
	addr string,
	database string,
	username string,
	password string,
) DataRecorder {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     5,
		MaxIdleConns:     5,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect to ClickHouse: %w", err))
	}

	if err := conn.Ping(context.Background()); err != nil {
		panic(fmt.Errorf("failed to ping ClickHouse: %w", err))
	}

	w := &clickHouseWriter{
		conn:      conn,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() { w.Flush() })

	w.execRecorder = newExecRecorder(w)
	w.execRecorder.Start()

	return w
}

// clickHouseColumnType maps a Go field kind to the ClickHouse column type
// it is stored as.
func clickHouseColumnType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "Bool"
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return "Int64"
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return "UInt64"
	case reflect.Float32, reflect.Float64:
		return "Float64"
	case reflect.String:
		return "String"
	default:
		panic(fmt.Sprintf("unsupported field kind %s", kind))
	}
}

// clickHouseDDL derives the CREATE TABLE statement for a sample entry. The
// first field orders the MergeTree.
func clickHouseDDL(tableName string, sampleEntry any) string {
	structType := reflect.TypeOf(sampleEntry)

	cols := make([]string, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		cols = append(cols,
			field.Name+" "+clickHouseColumnType(field.Type.Kind()))
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n) ENGINE = MergeTree()\nORDER BY %s",
		tableName,
		strings.Join(cols, ",\n\t"),
		structType.Field(0).Name,
	)
}

func (w *clickHouseWriter) CreateTable(tableName string, sampleEntry any) {
	err := checkStructFields(sampleEntry)
	if err != nil {
		panic(err)
	}

	ddl := clickHouseDDL(tableName, sampleEntry)

	if err := w.conn.Exec(context.Background(), ddl); err != nil {
		panic(fmt.Errorf("failed to create table %s: %w", tableName, err))
	}

	w.mu.Lock()
	w.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		entries:    []any{},
	}
	w.mu.Unlock()
}

func (w *clickHouseWriter) InsertData(tableName string, entry any) {
	w.mu.Lock()

	table, exists := w.tables[tableName]
	if !exists {
		w.mu.Unlock()
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	if reflect.TypeOf(entry) != table.structType {
		w.mu.Unlock()
		panic(fmt.Sprintf("table %s records %s, not %T",
			tableName, table.structType, entry))
	}

	table.entries = append(table.entries, entry)
	w.entryCount++

	if w.entryCount >= w.batchSize {
		w.mu.Unlock()
		w.Flush()
		return
	}

	w.mu.Unlock()
}

func (w *clickHouseWriter) ListTables() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	tables := make([]string, 0, len(w.tables))
	for name := range w.tables {
		tables = append(tables, name)
	}

	return tables
}

func (w *clickHouseWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.entryCount == 0 {
		return
	}

	ctx := context.Background()

	for tableName, table := range w.tables {
		if len(table.entries) == 0 {
			continue
		}

		w.flushTable(ctx, tableName, table)
	}

	w.entryCount = 0
}

func (w *clickHouseWriter) flushTable(
	ctx context.Context,
	tableName string,
	table *table,
) {
	batch, err := w.conn.PrepareBatch(ctx, "INSERT INTO "+tableName)
	if err != nil {
		panic(fmt.Errorf("failed to prepare batch for %s: %w",
			tableName, err))
	}

	fields := structs.Names(table.entries[0])

	for _, entry := range table.entries {
		values := reflect.ValueOf(entry)

		row := make([]any, len(fields))
		for i := range fields {
			row[i] = normalizedColumnValue(values.Field(i))
		}

		if err := batch.Append(row...); err != nil {
			panic(fmt.Errorf("failed to append to batch: %w", err))
		}
	}

	if err := batch.Send(); err != nil {
		panic(fmt.Errorf("failed to send batch: %w", err))
	}

	table.entries = table.entries[:0]
}

// normalizedColumnValue converts a field to the exact Go type the
// corresponding ClickHouse column expects.
func normalizedColumnValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64:
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	default:
		panic(fmt.Sprintf("unsupported field kind %s", v.Kind()))
	}
}

// Close flushes remaining data and closes the connection.
func (w *clickHouseWriter) Close() error {
	if w.execRecorder != nil {
		w.execRecorder.End()
	}

	w.Flush()

	if err := w.conn.Close(); err != nil {
		return fmt.Errorf("failed to close ClickHouse connection: %w", err)
	}

	return nil
}
