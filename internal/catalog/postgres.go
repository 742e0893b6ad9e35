// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

// LoadFromPostgres reads the catalog tables from PostgreSQL. The product
// attributes live in an EAV table so new vocabulary attributes do not require
// schema changes. Duplicate rows resolve last-wins, matching the CSV loader.
func LoadFromPostgres(ctx context.Context, db *sql.DB, log logger.Logger) (*Store, error) {
	products, err := loadProductsPG(ctx, db, log)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	unitPrices, err := loadPricesPG(ctx, db,
		`SELECT sku, unit_price FROM catalog_unit_prices`, log)
	if err != nil {
		return nil, fmt.Errorf("load unit prices: %w", err)
	}

	testPrices, err := loadPricesPG(ctx, db,
		`SELECT test_name, test_price FROM catalog_test_prices`, log)
	if err != nil {
		return nil, fmt.Errorf("load test prices: %w", err)
	}

	productTests, err := loadProductTestsPG(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("load product tests: %w", err)
	}

	log.Info("catalog loaded from postgres", map[string]interface{}{
		"products":   len(products),
		"unitPrices": len(unitPrices),
		"testPrices": len(testPrices),
	})

	return NewStore(products, unitPrices, testPrices, productTests), nil
}

func loadProductsPG(ctx context.Context, db *sql.DB, log logger.Logger) ([]ProductRecord, error) {
	query := `SELECT sku, attribute_name, attribute_value FROM catalog_products ORDER BY sku`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bysku := map[string]map[string]string{}
	order := []string{}
	for rows.Next() {
		var sku, name, value string
		if err := rows.Scan(&sku, &name, &value); err != nil {
			return nil, err
		}
		sku = strings.TrimSpace(sku)
		if sku == "" {
			continue
		}
		attrs, ok := bysku[sku]
		if !ok {
			attrs = map[string]string{}
			bysku[sku] = attrs
			order = append(order, sku)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := attrs[name]; dup {
			log.Warn("duplicate attribute row, keeping last value", map[string]interface{}{
				"sku":       sku,
				"attribute": name,
			})
		}
		attrs[name] = normalizeAttr(value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	products := make([]ProductRecord, 0, len(order))
	for _, sku := range order {
		products = append(products, ProductRecord{SKU: sku, Attributes: bysku[sku]})
	}
	return products, nil
}

func loadPricesPG(ctx context.Context, db *sql.DB, query string, log logger.Logger) (map[string]models.Money, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := map[string]models.Money{}
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		price, err := models.ParseMoney(raw)
		if err != nil {
			log.Warn("unparseable price, treating as zero", map[string]interface{}{
				"key":   key,
				"value": raw,
			})
			price = 0
		}
		prices[key] = price
	}
	return prices, rows.Err()
}

func loadProductTestsPG(ctx context.Context, db *sql.DB) (map[string][]string, error) {
	query := `SELECT sku, test_name FROM catalog_product_tests`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := map[string][]string{}
	for rows.Next() {
		var sku, name string
		if err := rows.Scan(&sku, &name); err != nil {
			return nil, err
		}
		sku = strings.TrimSpace(sku)
		name = strings.TrimSpace(name)
		if sku == "" || name == "" {
			continue
		}
		tests[sku] = append(tests[sku], name)
	}
	return tests, rows.Err()
}
