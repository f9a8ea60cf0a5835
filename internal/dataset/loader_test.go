package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "salesdash/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const validHeader = "Order ID,Order Date,Region,Category,Product,Quantity,Total Sales\n"

func TestLoader_Load_CleanFile(t *testing.T) {
	path := writeTempCSV(t, validHeader+
		"1001,2024-01-05,North,Electronics,Laptop,2,1999.98\n"+
		"1002,2024-01-07,South,Furniture,Desk,1,350.00\n")

	ds, err := NewLoader(testLogger()).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Stats.RowsRead)
	assert.Equal(t, 2, ds.Stats.RowsKept)
	assert.Equal(t, 0, ds.Stats.RowsDropped)
	require.Len(t, ds.Records, 2)

	first := ds.Records[0]
	assert.Equal(t, "1001", first.OrderID)
	assert.Equal(t, "2024-01-05", first.OrderDate.Format("2006-01-02"))
	assert.Equal(t, "North", first.Region)
	assert.Equal(t, "Electronics", first.Category)
	assert.Equal(t, "Laptop", first.Product)
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 2.0, *first.Quantity)
	assert.Equal(t, 1999.98, first.Amount)
}

func TestLoader_Load_HeaderNormalization(t *testing.T) {
	path := writeTempCSV(t, validHeader+"1,2024-02-01,East,Office,Chair,3,120\n")

	ds, err := NewLoader(testLogger()).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"order_id", "order_date", "region", "category", "product", "quantity", "total_sales"}, ds.Columns)
}

func TestLoader_Load_DropsDirtyRows(t *testing.T) {
	tests := []struct {
		name   string
		row    string
		reason string
	}{
		{"unparseable date", "1,05/01/2024,North,Electronics,Laptop,1,100\n", DropBadDate},
		{"blank date", "1,,North,Electronics,Laptop,1,100\n", DropBadDate},
		{"unparseable amount", "1,2024-01-05,North,Electronics,Laptop,1,n/a\n", DropBadAmount},
		{"blank amount", "1,2024-01-05,North,Electronics,Laptop,1,\n", DropBadAmount},
		{"blank region", "1,2024-01-05, ,Electronics,Laptop,1,100\n", DropBlankRegion},
		{"blank category", "1,2024-01-05,North,,Laptop,1,100\n", DropBlankCategory},
		{"short row", "1,2024-01-05,North\n", DropColumnCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, validHeader+tt.row)

			ds, err := NewLoader(testLogger()).Load(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, 0, ds.Stats.RowsKept)
			assert.Equal(t, 1, ds.Stats.RowsDropped)
			assert.Equal(t, 1, ds.Stats.DroppedByReason[tt.reason])
		})
	}
}

func TestLoader_Load_CleansAmountFormatting(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"dollar with thousands separator", `"$1,234.50"`, 1234.50},
		{"currency prefix", "Ksh 100.00", 100.00},
		{"plain number", "250", 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempCSV(t, validHeader+
				"1,2024-01-05,North,Electronics,Laptop,1,"+tt.raw+"\n")

			ds, err := NewLoader(testLogger()).Load(context.Background(), path)
			require.NoError(t, err)

			require.Len(t, ds.Records, 1)
			assert.Equal(t, tt.want, ds.Records[0].Amount)
		})
	}
}

func TestLoader_Load_QuantityIsLenient(t *testing.T) {
	path := writeTempCSV(t, validHeader+
		"1,2024-01-05,North,Electronics,Laptop,unknown,100\n"+
		"2,2024-01-06,North,Electronics,Laptop,,200\n")

	ds, err := NewLoader(testLogger()).Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, ds.Records, 2)
	assert.Nil(t, ds.Records[0].Quantity)
	assert.Nil(t, ds.Records[1].Quantity)
}

func TestLoader_Load_FieldsAlignedWithColumns(t *testing.T) {
	path := writeTempCSV(t, validHeader+
		`1001,2024-01-05,North,Electronics,Laptop,2,"$1,999.98"`+"\n")

	ds, err := NewLoader(testLogger()).Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, ds.Records, 1)
	fields := ds.Records[0].Fields
	require.Len(t, fields, len(ds.Columns))
	assert.Equal(t, []string{"1001", "2024-01-05", "North", "Electronics", "Laptop", "2", "1999.98"}, fields)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := NewLoader(testLogger()).Load(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, apierrors.ErrDataUnavailable)
}

func TestLoader_Load_MissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, "Order ID,Order Date,Region,Category,Product,Quantity\n1,2024-01-05,North,Electronics,Laptop,1\n")

	_, err := NewLoader(testLogger()).Load(context.Background(), path)
	assert.ErrorIs(t, err, apierrors.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "total_sales")
}
