package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTextRoundTrip(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2024-03-15")))
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", string(text))
}

func TestDateUnmarshalTextRejectsOtherLayouts(t *testing.T) {
	var d Date
	assert.Error(t, d.UnmarshalText([]byte("03/15/2024")))
	assert.Error(t, d.UnmarshalText([]byte("not-a-date")))
}

func TestDateValue(t *testing.T) {
	d := NewDate(2024, time.December, 1)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", v)
}

func TestDateScan(t *testing.T) {
	tests := []struct {
		name    string
		src     interface{}
		want    string
		wantErr bool
	}{
		{name: "string", src: "2024-06-30", want: "2024-06-30"},
		{name: "bytes", src: []byte("2024-06-30"), want: "2024-06-30"},
		{name: "time", src: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), want: "2024-06-30"},
		{name: "bad string", src: "June 30", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Format("2006-01-02"))
		})
	}
}

func TestDeriveStores(t *testing.T) {
	customers := []Customer{
		{CustomerID: "C001", Region: "East"},
		{CustomerID: "C002", Region: "West"},
		{CustomerID: "C003", Region: "East"},
		{CustomerID: "C004", Region: ""},
	}

	stores, byRegion := deriveStores(customers)

	require.Len(t, stores, 3)
	assert.Equal(t, "East", stores[0].Region)
	assert.Equal(t, "Unknown", stores[1].Region)
	assert.Equal(t, "West", stores[2].Region)

	for _, store := range stores {
		assert.NotEmpty(t, store.StoreID)
		assert.Equal(t, store.StoreID, byRegion[store.Region])
	}
}

func TestRegionOrUnknown(t *testing.T) {
	assert.Equal(t, "East", regionOrUnknown("East"))
	assert.Equal(t, UnknownRegion, regionOrUnknown(""))
}
