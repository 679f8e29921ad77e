package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/models"
	"hospital/repository"
)

func seedDirectory(t *testing.T, store *repository.MemoryStore, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, store.CreatePatient(context.Background(),
			&models.Patient{FullName: name}))
	}
}

func TestSuggestMatchesWithoutDiacritics(t *testing.T) {
	store := repository.NewMemoryStore()
	seedDirectory(t, store,
		"Nguyễn Văn Hùng",
		"Trần Thị Lan",
		"Phạm Minh Tuấn",
	)
	svc := NewPatientLookupService(store)

	// Gõ không dấu vẫn ra đúng người
	out, err := svc.Suggest(context.Background(), "nguyen van hung", 3)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "Nguyễn Văn Hùng", out[0].Patient.FullName)
	assert.InDelta(t, 1.0, out[0].Score, 0.001)
}

func TestSuggestToleratesTypos(t *testing.T) {
	store := repository.NewMemoryStore()
	seedDirectory(t, store,
		"Nguyễn Văn Hùng",
		"Trần Thị Lan",
		"Lê Quốc Bảo",
	)
	svc := NewPatientLookupService(store)

	out, err := svc.Suggest(context.Background(), "nguyen van hong", 2)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "Nguyễn Văn Hùng", out[0].Patient.FullName)
	assert.Greater(t, out[0].Score, 0.8)
	assert.LessOrEqual(t, len(out), 2)
}

func TestSuggestOrdersByScore(t *testing.T) {
	store := repository.NewMemoryStore()
	seedDirectory(t, store,
		"Trần Văn An",
		"Trần Văn Anh",
		"Võ Thị Xuân",
	)
	svc := NewPatientLookupService(store)

	out, err := svc.Suggest(context.Background(), "tran van an", 3)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(out), 2)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i-1].Score, out[i].Score)
	}
	assert.Equal(t, "Trần Văn An", out[0].Patient.FullName)
}

func TestSuggestEmptyInputs(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewPatientLookupService(store)
	ctx := context.Background()

	out, err := svc.Suggest(ctx, "   ", 5)
	require.NoError(t, err)
	assert.Nil(t, out)

	// Danh bạ rỗng cũng không phải lỗi
	out, err = svc.Suggest(ctx, "nguyen", 5)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestNormalizeInput(t *testing.T) {
	assert.Equal(t, "nguyen van hung", normalizeInput("  Nguyễn Văn Hùng "))
	assert.Equal(t, "tran thi lan", normalizeInput("TRẦN THỊ LAN"))
	assert.Equal(t, "", normalizeInput("   "))
}

func TestCalculateSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, calculateSimilarity("abc", "abc"), 0.001)
	assert.InDelta(t, 0.75, calculateSimilarity("abcd", "abcx"), 0.001)
	// Một ký tự sai tính đúng một lỗi, không phải hai
	assert.InDelta(t, 14.0/15.0, calculateSimilarity("nguyen van hong", "nguyen van hung"), 0.001)
	assert.InDelta(t, 1.0, calculateSimilarity("", ""), 0.001)
}
