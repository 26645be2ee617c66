package coredb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bukken.rehub.jp/internal/match"
)

func TestUpsertDismissedPairStoresCanonicalOrder(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tenantID := testTenant(t, client)

	require.NoError(t, client.Queries.UpsertDismissedPair(ctx, UpsertDismissedPairParams{
		TenantID:   tenantID,
		EntityType: match.EntityTypeCustomer,
		IDA:        9,
		IDB:        3,
	}))

	pairs, err := client.Queries.ListDismissedPairs(ctx, ListDismissedPairsParams{
		TenantID:   tenantID,
		EntityType: match.EntityTypeCustomer,
	})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, int64(3), pairs[0].EntityIDLow)
	assert.Equal(t, int64(9), pairs[0].EntityIDHigh)
}

func TestUpsertDismissedPairIsIdempotent(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tenantID := testTenant(t, client)

	for _, pair := range [][2]int64{{3, 9}, {9, 3}, {3, 9}} {
		require.NoError(t, client.Queries.UpsertDismissedPair(ctx, UpsertDismissedPairParams{
			TenantID:   tenantID,
			EntityType: match.EntityTypeCustomer,
			IDA:        pair[0],
			IDB:        pair[1],
		}))
	}

	pairs, err := client.Queries.ListDismissedPairs(ctx, ListDismissedPairsParams{
		TenantID:   tenantID,
		EntityType: match.EntityTypeCustomer,
	})
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
}

func TestDismissedPairsSeparateByEntityType(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	tenantID := testTenant(t, client)

	require.NoError(t, client.Queries.UpsertDismissedPair(ctx, UpsertDismissedPairParams{
		TenantID: tenantID, EntityType: match.EntityTypeCustomer, IDA: 1, IDB: 2,
	}))
	require.NoError(t, client.Queries.UpsertDismissedPair(ctx, UpsertDismissedPairParams{
		TenantID: tenantID, EntityType: match.EntityTypeBuilding, IDA: 1, IDB: 2,
	}))

	source := NewMatchSource(client.Queries)

	customerSet, err := source.DismissedPairs(ctx, tenantID, match.EntityTypeCustomer)
	require.NoError(t, err)
	assert.Equal(t, 1, customerSet.Len())
	assert.True(t, customerSet.Contains(2, 1))

	buildingSet, err := source.DismissedPairs(ctx, tenantID, match.EntityTypeBuilding)
	require.NoError(t, err)
	assert.Equal(t, 1, buildingSet.Len())
}
