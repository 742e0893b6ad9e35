// internal/catalog/csv.go
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"rfp-bid-engine/internal/common/config"
	"rfp-bid-engine/internal/common/logger"
	"rfp-bid-engine/internal/models"
)

// LoadFromCSV reads the four catalog tables from CSV files. Duplicate skus
// are resolved last-wins with a logged warning.
func LoadFromCSV(cfg config.CatalogConfig, log logger.Logger) (*Store, error) {
	products, err := loadProductsCSV(cfg.ProductsPath, log)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	unitPrices, err := loadPriceCSV(cfg.UnitPricesPath, "sku", "unit_price", log)
	if err != nil {
		return nil, fmt.Errorf("load unit prices: %w", err)
	}

	testPrices, err := loadPriceCSV(cfg.TestPricesPath, "test_name", "test_price", log)
	if err != nil {
		return nil, fmt.Errorf("load test prices: %w", err)
	}

	productTests := map[string][]string{}
	if cfg.ProductTestsPath != "" {
		productTests, err = loadProductTestsCSV(cfg.ProductTestsPath)
		if err != nil {
			return nil, fmt.Errorf("load product tests: %w", err)
		}
	}

	log.Info("catalog loaded from csv", map[string]interface{}{
		"products":   len(products),
		"unitPrices": len(unitPrices),
		"testPrices": len(testPrices),
	})

	return NewStore(products, unitPrices, testPrices, productTests), nil
}

func loadProductsCSV(path string, log logger.Logger) ([]ProductRecord, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	skuCol := -1
	for i, name := range header {
		if name == "sku" || name == "product_sku" {
			skuCol = i
			break
		}
	}
	if skuCol < 0 {
		return nil, fmt.Errorf("%s: missing sku column", path)
	}

	bysku := map[string]ProductRecord{}
	order := []string{}
	for _, row := range rows {
		sku := strings.TrimSpace(row[skuCol])
		if sku == "" {
			continue
		}
		attrs := map[string]string{}
		for i, name := range header {
			if i == skuCol || i >= len(row) {
				continue
			}
			val := normalizeAttr(row[i])
			if val != "" {
				attrs[name] = val
			}
		}
		if _, dup := bysku[sku]; dup {
			log.Warn("duplicate sku in product table, keeping last row", map[string]interface{}{
				"sku": sku,
			})
		} else {
			order = append(order, sku)
		}
		bysku[sku] = ProductRecord{SKU: sku, Attributes: attrs}
	}

	products := make([]ProductRecord, 0, len(order))
	for _, sku := range order {
		products = append(products, bysku[sku])
	}
	return products, nil
}

func loadPriceCSV(path, keyCol, priceCol string, log logger.Logger) (map[string]models.Money, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	keyIdx, priceIdx := -1, -1
	for i, name := range header {
		switch name {
		case keyCol:
			keyIdx = i
		case priceCol:
			priceIdx = i
		}
	}
	if keyIdx < 0 || priceIdx < 0 {
		return nil, fmt.Errorf("%s: missing %s or %s column", path, keyCol, priceCol)
	}

	prices := map[string]models.Money{}
	for _, row := range rows {
		if keyIdx >= len(row) || priceIdx >= len(row) {
			continue
		}
		key := strings.TrimSpace(row[keyIdx])
		if key == "" {
			continue
		}
		price, err := models.ParseMoney(row[priceIdx])
		if err != nil {
			log.Warn("unparseable price, treating as zero", map[string]interface{}{
				"file":  path,
				"key":   key,
				"value": row[priceIdx],
			})
			price = 0
		}
		if _, dup := prices[key]; dup {
			log.Warn("duplicate key in price table, keeping last row", map[string]interface{}{
				"file": path,
				"key":  key,
			})
		}
		prices[key] = price
	}
	return prices, nil
}

func loadProductTestsCSV(path string) (map[string][]string, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	skuIdx, testIdx := -1, -1
	for i, name := range header {
		switch name {
		case "sku":
			skuIdx = i
		case "test_name":
			testIdx = i
		}
	}
	if skuIdx < 0 || testIdx < 0 {
		return nil, fmt.Errorf("%s: missing sku or test_name column", path)
	}

	tests := map[string][]string{}
	for _, row := range rows {
		if skuIdx >= len(row) || testIdx >= len(row) {
			continue
		}
		sku := strings.TrimSpace(row[skuIdx])
		name := strings.TrimSpace(row[testIdx])
		if sku == "" || name == "" {
			continue
		}
		tests[sku] = append(tests[sku], name)
	}
	return tests, nil
}

func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return records[1:], header, nil
}

func normalizeAttr(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
