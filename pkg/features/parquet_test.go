package features_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scotuslab/leanings/pkg/features"
	"github.com/scotuslab/leanings/pkg/scdb"
	"github.com/stretchr/testify/require"
)

func TestParquetRoundTrip(t *testing.T) {
	records := []scdb.JoinedRecord{
		record(111, 1994, scdb.CriminalProcedure, scdb.Liberal, -1.9),
		record(111, 1994, scdb.CivilRights, scdb.Liberal, -1.9),
		record(102, 1994, scdb.CriminalProcedure, scdb.Conservative, 1.4),
		record(102, 1995, scdb.EconomicActivity, scdb.Conservative, 1.5),
	}
	matrix := features.Build(records)

	path := filepath.Join(t.TempDir(), "features.parquet")
	require.NoError(t, features.WriteParquet(path, matrix))

	loaded, err := features.ReadParquet(context.Background(), path)
	require.NoError(t, err)

	if diff := cmp.Diff(matrix, loaded); diff != "" {
		t.Errorf("round-tripped matrix differs (-want +got):\n%s", diff)
	}
}

func TestReadParquetMissingFile(t *testing.T) {
	_, err := features.ReadParquet(context.Background(),
		filepath.Join(t.TempDir(), "absent.parquet"))
	require.Error(t, err)
}
