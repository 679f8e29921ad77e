package services

import (
	"context"
	"sort"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"hospital/models"
	"hospital/repository"
)

// PatientLookupService tìm kiếm mờ trong danh bạ bệnh nhân, phục vụ xác định
// danh tính cho bệnh nhân vô danh: người nhà đọc tên ước lượng, nhân viên gõ
// không dấu hoặc sai chính tả vẫn ra được ứng viên.
type PatientLookupService struct {
	store repository.Store
}

func NewPatientLookupService(store repository.Store) *PatientLookupService {
	return &PatientLookupService{store: store}
}

// PatientCandidate một ứng viên khớp kèm điểm tương đồng 0..1
type PatientCandidate struct {
	Patient models.Patient `json:"patient"`
	Score   float64        `json:"score"`
}

// Suggest trả về tối đa limit ứng viên, điểm cao xếp trước. Truy vấn và tên
// trong danh bạ đều được bỏ dấu trước khi so khớp.
func (s *PatientLookupService) Suggest(ctx context.Context, query string, limit int) ([]PatientCandidate, error) {
	query = normalizeInput(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	patients, err := s.store.ListPatients(ctx)
	if err != nil {
		return nil, err
	}
	if len(patients) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(patients))
	byName := make(map[string][]int)
	for i, p := range patients {
		n := normalizeInput(p.FullName)
		if _, seen := byName[n]; !seen {
			names = append(names, n)
		}
		byName[n] = append(byName[n], i)
	}

	cm := createMatcher(names)
	candidates := cm.ClosestN(query, limit*2)

	var out []PatientCandidate
	for _, name := range candidates {
		score := calculateSimilarity(query, name)
		for _, idx := range byName[name] {
			out = append(out, PatientCandidate{Patient: patients[idx], Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Chuẩn hóa chuỗi tiếng Việt về dạng không dấu, chữ thường
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ToLower(unidecode.Unidecode(input))
	return input
}

// Tạo đối tượng closestmatch cho danh sách tên
func createMatcher(names []string) *closestmatch.ClosestMatch {
	return closestmatch.New(names, []int{2, 3})
}

// Chi phí thay thế 1 (mặc định của thư viện là 2) để khoảng cách tối đa bằng
// độ dài chuỗi dài hơn và điểm nằm trong [0, 1]
var similarityOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// Tính độ tương đồng giữa hai chuỗi
func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), similarityOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(distance)/maxLen
}
