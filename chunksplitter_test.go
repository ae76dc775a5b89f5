package rangeget

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_Coverage(t *testing.T) {
	cases := []struct {
		length, chunk int64
		wantRanges    []ByteRange
	}{
		{13, 1024, []ByteRange{{0, 12}}},
		{1024, 1024, []ByteRange{{0, 1023}}},
		{5000, 1024, []ByteRange{
			{0, 1023}, {1024, 2047}, {2048, 3071}, {3072, 4095}, {4096, 4999},
		}},
		{3072, 1024, []ByteRange{{0, 1023}, {1024, 2047}, {2048, 3071}}},
		{1, 1, []ByteRange{{0, 0}}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%d/%d", c.length, c.chunk), func(t *testing.T) {
			got, err := Split(c.length, c.chunk)
			require.NoError(t, err)
			assert.Equal(t, c.wantRanges, got)

			assert.Equal(t, int64(0), got[0].Start)
			assert.Equal(t, c.length-1, got[len(got)-1].End)

			var sum int64
			for i, r := range got {
				if i > 0 {
					assert.Equal(t, got[i-1].End+1, r.Start, "no gap or overlap at index %d", i)
				}
				assert.LessOrEqual(t, r.Length(), c.chunk)
				if i != len(got)-1 {
					assert.Equal(t, c.chunk, r.Length(), "only the last range may be short")
				}
				sum += r.Length()
			}
			assert.Equal(t, c.length, sum)
		})
	}
}

func TestSplit_NPlusOneBoundary(t *testing.T) {
	const chunk = int64(1024)
	length := 3*chunk + 1

	got, err := Split(length, chunk)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.Equal(t, int64(1), got[3].Length())
}

func TestSplit_RejectsNonPositiveArguments(t *testing.T) {
	_, err := Split(0, 1024)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = Split(-1, 1024)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = Split(1024, 0)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	_, err = Split(1024, -5)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}
