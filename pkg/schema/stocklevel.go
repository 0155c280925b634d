package schema

const StockLevelSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "stock_level",
	"fields": [
		{"name": "variant_id", "type": "string"},
		{"name": "stock", "type": "long"},
		{"name": "available", "type": "boolean"}
	]
}`

// StockLevelV1 is the stock of one variant as reported by order
// placement after its authoritative decrement.
type StockLevelV1 struct {
	VariantID string `avro:"variant_id"`
	Stock     int64  `avro:"stock"`
	Available bool   `avro:"available"`
}
