package schema

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_event",
	"fields": [
		{"name": "event_id", "type": "string"},
		{"name": "event_type", "type": "string"},
		{"name": "user_id", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "variant_id", "type": "string"},
		{"name": "line_id", "type": "string"},
		{"name": "quantity", "type": "long"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// CartEventV1 is one cart mutation on the cart-events topic.
// occurred_at is unix milliseconds.
type CartEventV1 struct {
	EventID    string `avro:"event_id"`
	EventType  string `avro:"event_type"`
	UserID     string `avro:"user_id"`
	ProductID  string `avro:"product_id"`
	VariantID  string `avro:"variant_id"`
	LineID     string `avro:"line_id"`
	Quantity   int64  `avro:"quantity"`
	OccurredAt int64  `avro:"occurred_at"`
}
