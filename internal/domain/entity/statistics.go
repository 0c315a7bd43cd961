package entity

// StudentCounts is the raw placement tally for a set of students.
type StudentCounts struct {
	Total  int `json:"total"`
	Placed int `json:"placed"`
}

type RecruiterCounts struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
}

type JobCounts struct {
	Total  int `json:"total"`
	Open   int `json:"open"`
	Closed int `json:"closed"`
}

// BranchCounts is the placement tally of one branch.
type BranchCounts struct {
	Branch Branch
	StudentCounts
}

// JobStageCounts is the per-status application tally of one job.
type JobStageCounts struct {
	JobID       string
	Title       string
	CompanyName string
	Stages      map[ApplicationStatus]int
}
