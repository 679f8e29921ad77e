package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSequence(t *testing.T) {
	day := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "ER-20260901-0001", FormatSequence(SeqEmergency, day, 1))
	assert.Equal(t, "ADM-20260901-0042", FormatSequence(SeqAdmission, day, 42))
	assert.Equal(t, "UNK-20260901-1234", FormatSequence(SeqUnknown, day, 1234))
}

func TestMemorySequenceCountsPerPrefixAndDay(t *testing.T) {
	seq := NewMemorySequence()
	ctx := context.Background()
	day := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	n1, err := seq.Next(ctx, SeqEmergency, day)
	require.NoError(t, err)
	n2, err := seq.Next(ctx, SeqEmergency, day)
	require.NoError(t, err)
	assert.Equal(t, "ER-20260901-0001", n1)
	assert.Equal(t, "ER-20260901-0002", n2)

	// Tiền tố khác đếm riêng
	a1, err := seq.Next(ctx, SeqAdmission, day)
	require.NoError(t, err)
	assert.Equal(t, "ADM-20260901-0001", a1)

	// Qua ngày mới đếm lại từ đầu
	n3, err := seq.Next(ctx, SeqEmergency, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "ER-20260902-0001", n3)
}

func TestMemorySequenceConcurrentUnique(t *testing.T) {
	seq := NewMemorySequence()
	day := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	const n = 50
	out := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := seq.Next(context.Background(), SeqEmergency, day)
			assert.NoError(t, err)
			out <- number
		}()
	}
	wg.Wait()
	close(out)

	seen := map[string]bool{}
	for number := range out {
		assert.False(t, seen[number], "số %s bị cấp trùng", number)
		seen[number] = true
	}
	assert.Len(t, seen, n)
}
