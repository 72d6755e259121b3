package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTransactionView(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	tests := []struct {
		name         string
		data         string
		location     *string
		wantData     JSON
		wantCountry  interface{}
		wantLocation int
	}{
		{
			name:         "well formed",
			data:         `{"type":"PAYMENT","amount":125.75}`,
			location:     strPtr(`{"country":"US","region":"New Jersey","city":"Jersey City","is_vpn":false}`),
			wantData:     JSON{"type": "PAYMENT", "amount": json.Number("125.75")},
			wantCountry:  "US",
			wantLocation: 4,
		},
		{
			name:         "malformed data",
			data:         `{"type":`,
			location:     strPtr(`{"country":"GB"}`),
			wantData:     JSON{},
			wantCountry:  "GB",
			wantLocation: 1,
		},
		{
			name:         "legacy unquoted country",
			data:         `{}`,
			location:     strPtr(`{"country":US}`),
			wantData:     JSON{},
			wantCountry:  "Unknown",
			wantLocation: 3,
		},
		{
			name:         "missing location",
			data:         ``,
			location:     nil,
			wantData:     JSON{},
			wantCountry:  "Unknown",
			wantLocation: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := Transaction{
				ID:              7,
				Reference:       "2c1f3a9e-8a55-4b3c-9d1f-0f5b2b0f7b11",
				TransactionData: tt.data,
				Prediction:      "LEGITIMATE",
				Probability:     0.1,
				Action:          "allow",
				LocationData:    tt.location,
				CreatedAt:       created,
			}

			view := tx.View()

			assert.Equal(t, tt.wantData, view.TransactionData)
			assert.Equal(t, tt.wantCountry, view.LocationData["country"])
			assert.Len(t, view.LocationData, tt.wantLocation)
			assert.Equal(t, "2025-03-14 09:26:53", view.Timestamp)
			assert.Equal(t, uint(7), view.ID)
		})
	}
}

func TestTransactionViewJSON(t *testing.T) {
	tx := Transaction{
		ID:              1,
		TransactionData: `{"amount":85000}`,
		LocationData:    strPtr(`{"country":"US"}`),
		CreatedAt:       time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	raw, err := json.Marshal(tx.View())
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "2025-01-02 03:04:05", out["timestamp"])
	assert.Equal(t, map[string]interface{}{"amount": float64(85000)}, out["transaction_data"])
	assert.NotContains(t, out, "forwarded_for")
}

func TestDecodeLocation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Location
		wantErr bool
	}{
		{
			name: "canonical",
			raw:  `{"country":"US","region":"New Jersey","city":"Jersey City","latitude":40.7282,"longitude":-74.0776,"is_vpn":false,"is_proxy":true}`,
			want: Location{Country: "US", Region: "New Jersey", City: "Jersey City", Latitude: 40.7282, Longitude: -74.0776, IsProxy: true},
		},
		{
			name: "string coerced",
			raw:  `{"country":"FR","latitude":"48.85","longitude":"2.35","is_vpn":"true"}`,
			want: Location{Country: "FR", Latitude: 48.85, Longitude: 2.35, IsVPN: true},
		},
		{
			name: "numeric flag",
			raw:  `{"country":"DE","is_proxy":1}`,
			want: Location{Country: "DE", IsProxy: true},
		},
		{
			name: "missing country",
			raw:  `{"city":"Paris"}`,
			want: Location{Country: "Unknown", City: "Paris"},
		},
		{name: "not json", raw: `{"country":US}`, wantErr: true},
		{name: "array", raw: `[1,2]`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLocation(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationEncodeRoundTrip(t *testing.T) {
	loc := Location{Country: "US", Region: "New Jersey", City: "Jersey City", Latitude: 40.7282, Longitude: -74.0776, IsVPN: true}

	raw, err := loc.Encode()
	require.NoError(t, err)
	assert.Contains(t, raw, `"country":"US"`)

	back, err := DecodeLocation(raw)
	require.NoError(t, err)
	assert.Equal(t, loc, back)
	assert.True(t, back.Anonymized())
}

func TestJSONEncode(t *testing.T) {
	s, err := JSON(nil).Encode()
	require.NoError(t, err)
	assert.Equal(t, "{}", s)

	s, err = JSON{"receiver_country": "<GB>"}.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"receiver_country":"<GB>"}`, s)
}
