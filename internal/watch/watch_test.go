package watch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDocumentID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), DocumentID(oid))
	assert.Equal(t, "plain-id", DocumentID("plain-id"))
	assert.Equal(t, "", DocumentID(nil))
	assert.Equal(t, "42", DocumentID(int32(42)))
}
