// internal/catalog/postgres_test.go
package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfp-bid-engine/internal/common/logger"
)

func TestLoadFromPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT sku, attribute_name, attribute_value FROM catalog_products`).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "attribute_name", "attribute_value"}).
			AddRow("SKU-001", "conductor_size_sqmm", "400").
			AddRow("SKU-001", "conductor_material", "Aluminium").
			AddRow("SKU-002", "conductor_size_sqmm", "240"))

	mock.ExpectQuery(`SELECT sku, unit_price FROM catalog_unit_prices`).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "unit_price"}).
			AddRow("SKU-001", "1500.00").
			AddRow("SKU-002", "950.25"))

	mock.ExpectQuery(`SELECT test_name, test_price FROM catalog_test_prices`).
		WillReturnRows(sqlmock.NewRows([]string{"test_name", "test_price"}).
			AddRow("High Voltage Test", "500.00"))

	mock.ExpectQuery(`SELECT sku, test_name FROM catalog_product_tests`).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "test_name"}).
			AddRow("SKU-001", "High Voltage Test"))

	store, err := LoadFromPostgres(context.Background(), db, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	products := store.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "SKU-001", products[0].SKU)
	assert.Equal(t, "aluminium", products[0].Attributes["conductor_material"])
	assert.Equal(t, "400", products[0].Attributes["conductor_size_sqmm"])

	price, ok := store.UnitPrice("SKU-002")
	require.True(t, ok)
	assert.Equal(t, "950.25", price.String())

	assert.Equal(t, []string{"High Voltage Test"}, store.TestsFor("SKU-001"))
}

func TestLoadFromPostgres_QueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT sku, attribute_name, attribute_value FROM catalog_products`).
		WillReturnError(assert.AnError)

	_, err = LoadFromPostgres(context.Background(), db, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load products")
}

func TestLoadFromPostgres_UnparseablePriceIsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT sku, attribute_name, attribute_value FROM catalog_products`).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "attribute_name", "attribute_value"}))

	mock.ExpectQuery(`SELECT sku, unit_price FROM catalog_unit_prices`).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "unit_price"}).
			AddRow("SKU-001", "garbage"))

	mock.ExpectQuery(`SELECT test_name, test_price FROM catalog_test_prices`).
		WillReturnRows(sqlmock.NewRows([]string{"test_name", "test_price"}))

	mock.ExpectQuery(`SELECT sku, test_name FROM catalog_product_tests`).
		WillReturnRows(sqlmock.NewRows([]string{"sku", "test_name"}))

	store, err := LoadFromPostgres(context.Background(), db, logger.NewTestLogger(t))
	require.NoError(t, err)

	price, ok := store.UnitPrice("SKU-001")
	require.True(t, ok)
	assert.Zero(t, price)
}
