package entity

import (
	"strings"
	"time"
)

type Branch string

const (
	BranchCSE Branch = "CSE"
	BranchECE Branch = "ECE"
	BranchEE  Branch = "EE"
	BranchME  Branch = "ME"
	BranchCE  Branch = "CE"
	BranchAI  Branch = "AI"
	BranchChE Branch = "ChE"
)

// Branches lists every branch in display order.
func Branches() []Branch {
	return []Branch{BranchCSE, BranchECE, BranchEE, BranchME, BranchCE, BranchAI, BranchChE}
}

func (b Branch) Valid() bool {
	for _, v := range Branches() {
		if b == v {
			return true
		}
	}
	return false
}

// ParseBranch matches s case-insensitively against the known branches.
func ParseBranch(s string) (Branch, bool) {
	s = strings.TrimSpace(s)
	for _, v := range Branches() {
		if strings.EqualFold(s, string(v)) {
			return v, true
		}
	}
	return "", false
}

const (
	MinCGPA = 0.0
	MaxCGPA = 10.0
)

func ValidCGPA(v float64) bool { return v >= MinCGPA && v <= MaxCGPA }

// Resume describes the single résumé stored for a student.
type Resume struct {
	FileName   string    `json:"fileName"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	StorageKey string    `json:"-"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type StudentProfile struct {
	ID         string
	IdentityID string
	RollNumber string
	Branch     Branch
	CGPA       *float64
	Skills     []string
	IsPlaced   bool
	Resume     *Resume
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StudentUpdate is a partial update of the student-editable fields.
type StudentUpdate struct {
	CGPA   *float64
	Skills *[]string
}

func (u StudentUpdate) Empty() bool { return u.CGPA == nil && u.Skills == nil }

func (s *StudentProfile) Apply(u StudentUpdate) {
	if u.CGPA != nil {
		v := *u.CGPA
		s.CGPA = &v
	}
	if u.Skills != nil {
		s.Skills = append([]string(nil), (*u.Skills)...)
	}
}
