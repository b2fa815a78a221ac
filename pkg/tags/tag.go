package tags

// Tag is read-only reference data seeded out of band.
type Tag struct {
	ID   interface{} `bson:"_id,omitempty"`
	Name string      `bson:"name"`
}
