package models

// UserRole
type UserRole string

const (
	UserRoleCandidate UserRole = "candidate"
	UserRoleRecruiter UserRole = "recruiter"
)

func (r UserRole) Valid() bool {
	return r == UserRoleCandidate || r == UserRoleRecruiter
}

// ApplicationStatus
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusReviewing   ApplicationStatus = "reviewing"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

var AllApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewing,
	ApplicationStatusInterviewed,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range AllApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// strictTransitions is the sequence the recruiter UI walks through.
// It is only enforced when strict transitions are switched on.
var strictTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:     {ApplicationStatusReviewing, ApplicationStatusRejected},
	ApplicationStatusReviewing:   {ApplicationStatusInterviewed, ApplicationStatusRejected},
	ApplicationStatusInterviewed: {ApplicationStatusAccepted, ApplicationStatusRejected},
}

// CanTransition reports whether from -> to is allowed under the strict table.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// JobType
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeRemote     JobType = "remote"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeRemote:
		return true
	}
	return false
}

// ExperienceLevel
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive:
		return true
	}
	return false
}

// CompanySize
type CompanySize string

const (
	CompanySize1To10     CompanySize = "1-10"
	CompanySize11To50    CompanySize = "11-50"
	CompanySize51To200   CompanySize = "51-200"
	CompanySize201To500  CompanySize = "201-500"
	CompanySize501To1000 CompanySize = "501-1000"
	CompanySize1000Plus  CompanySize = "1000+"
)

func (s CompanySize) Valid() bool {
	switch s {
	case CompanySize1To10, CompanySize11To50, CompanySize51To200,
		CompanySize201To500, CompanySize501To1000, CompanySize1000Plus:
		return true
	}
	return false
}

// DocumentKind names an attachment slot on an application.
type DocumentKind string

const (
	DocumentResume      DocumentKind = "resume"
	DocumentCoverLetter DocumentKind = "cover_letter"
)

// ParseDocumentKind accepts the canonical names plus the camelCase form
// used by the web client.
func ParseDocumentKind(s string) (DocumentKind, bool) {
	switch s {
	case "resume":
		return DocumentResume, true
	case "cover_letter", "coverLetter", "cover-letter":
		return DocumentCoverLetter, true
	}
	return "", false
}
