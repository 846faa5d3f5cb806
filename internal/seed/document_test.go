package seed

import (
	"testing"

	"krubolab/internal/model"
	"krubolab/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Kind
		wantErr bool
	}{
		{"products.json", KindProducts, false},
		{"catalog/Products.json.gz", KindProducts, false},
		{"services-2024.json", KindServices, false},
		{`data\contacts.json`, KindContacts, false},
		{"orders.json", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KindOf(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeProducts_BareArray(t *testing.T) {
	products, err := DecodeProducts([]byte(`[
		{"id":" p1 ","name":"Llavero","price":"12.000","colours":"Rojo, Azul ,","image":"a.jpg"},
		{"name":"Lampara","price":45000,"images":["b.jpg","c.jpg"],"colors":["Negro"],"measurements":["20cm"]}
	]`))

	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, money.Amount(12000), products[0].Price)
	assert.Equal(t, []string{"Rojo", "Azul"}, products[0].Colours)
	assert.Equal(t, []string{"a.jpg"}, products[0].Images)

	assert.Empty(t, products[1].ID)
	assert.Equal(t, money.Amount(45000), products[1].Price)
	assert.Equal(t, []string{"b.jpg", "c.jpg"}, products[1].Images)
	assert.Equal(t, []string{"Negro"}, products[1].Colours)
	assert.Equal(t, []string{"20cm"}, products[1].Measurements)
}

func TestDecodeProducts_ContentEnvelope(t *testing.T) {
	products, err := DecodeProducts([]byte(`{"content":[{"id":"p1","name":"Llavero","price":1000}],"totalPages":1}`))

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Llavero", products[0].Name)
}

func TestDecodeProducts_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "   "},
		{"no content", `{"items":[]}`},
		{"not json", `products`},
		{"wrong colours type", `[{"name":"x","colours":42}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeProducts([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestDecodeServices(t *testing.T) {
	offerings, err := DecodeServices([]byte(`[{"id":"s1","name":" Corte laser ","price":"30.000","duration":"2h","category":"Fabricacion"}]`))

	require.NoError(t, err)
	require.Len(t, offerings, 1)
	assert.Equal(t, "Corte laser", offerings[0].Name)
	assert.Equal(t, money.Amount(30000), offerings[0].Price)
	assert.Equal(t, "2h", offerings[0].Duration)
}

func TestDecodeContacts(t *testing.T) {
	contacts, err := DecodeContacts([]byte(`{"content":[{"name":"Ana","email":" ana@example.com ","status":"Active"}]}`))

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "ana@example.com", contacts[0].Email)
	assert.Equal(t, model.ContactActive, contacts[0].Status)
}
