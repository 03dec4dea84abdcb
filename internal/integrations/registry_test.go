package integrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSupportedSystem(t *testing.T) {
	r := NewRegistry()

	conn, err := r.Setup("erp_systems", Credentials{"api_key": "k"})
	require.NoError(t, err)

	assert.Equal(t, "erp_systems", conn.SystemType)
	assert.Equal(t, "ACTIVE", conn.Status)
	assert.Equal(t, "erp_systems_inventory_field", conn.DataMapping["inventory"])
	assert.False(t, conn.NextSync.IsZero())
}

func TestSetupRejectsUnknownSystem(t *testing.T) {
	r := NewRegistry()

	_, err := r.Setup("fax_machine", Credentials{"number": "1"})
	assert.Error(t, err)
}

func TestSetupRejectsMissingCredentials(t *testing.T) {
	r := NewRegistry()

	_, err := r.Setup("iot_sensors", nil)
	assert.Error(t, err)
}

func TestSyncRequiresSetup(t *testing.T) {
	r := NewRegistry()

	_, err := r.Sync("accounting_software")
	assert.Error(t, err)

	_, err = r.Setup("accounting_software", Credentials{"token": "t"})
	require.NoError(t, err)

	result, err := r.Sync("accounting_software")
	require.NoError(t, err)
	assert.Equal(t, "accounting_software", result.SystemType)
	assert.Equal(t, 42, result.RecordsSynced)
	assert.False(t, result.SyncedAt.IsZero())
}

func TestActiveSortedBySystemType(t *testing.T) {
	r := NewRegistry()

	_, err := r.Setup("iot_sensors", Credentials{"k": "v"})
	require.NoError(t, err)
	_, err = r.Setup("erp_systems", Credentials{"k": "v"})
	require.NoError(t, err)

	active := r.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "erp_systems", active[0].SystemType)
	assert.Equal(t, "iot_sensors", active[1].SystemType)
}

func TestSupportedReturnsCopy(t *testing.T) {
	catalog := Supported()
	require.Contains(t, catalog, "supplier_apis")

	catalog["supplier_apis"][0] = "mutated"
	assert.Equal(t, "REST", Supported()["supplier_apis"][0])
}
