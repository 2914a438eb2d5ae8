package auth

// ============================================================================
// DOMAIN-SPECIFIC SCOPES - Job tracker
// ============================================================================

const (
	ScopeAll = "*"

	// Resume scopes
	ScopeResumesAll   = "resumes:*"
	ScopeResumesRead  = "resumes:read"
	ScopeResumesWrite = "resumes:write"

	// Annotation scopes
	ScopeAnnotationsAll   = "annotations:*"
	ScopeAnnotationsRead  = "annotations:read"
	ScopeAnnotationsWrite = "annotations:write" // Open editor sessions and save
)

// DomainScopeCategories organizes domain-specific scopes
var DomainScopeCategories = map[string][]string{
	"Resumes": {
		ScopeResumesAll,
		ScopeResumesRead,
		ScopeResumesWrite,
	},
	"Annotations": {
		ScopeAnnotationsAll,
		ScopeAnnotationsRead,
		ScopeAnnotationsWrite,
	},
}

// DomainScopeDescriptions provides descriptions for domain scopes
var DomainScopeDescriptions = map[string]string{
	ScopeAll: "Full access",

	ScopeResumesAll:   "Full access to own resumes",
	ScopeResumesRead:  "View own resumes and their pages",
	ScopeResumesWrite: "Edit own resumes",

	ScopeAnnotationsAll:   "Full access to resume annotations",
	ScopeAnnotationsRead:  "View annotation sessions and saved annotations",
	ScopeAnnotationsWrite: "Edit and save resume annotations",
}

// DefaultUserScopes are granted to a regular job seeker account
var DefaultUserScopes = []string{
	ScopeResumesAll,
	ScopeAnnotationsAll,
}

// HasScope reports whether granted covers required, honouring "*" and "<resource>:*"
func HasScope(granted []string, required string) bool {
	for _, s := range granted {
		if s == required || s == ScopeAll {
			return true
		}
		if len(s) > 2 && s[len(s)-2:] == ":*" {
			prefix := s[:len(s)-1]
			if len(required) > len(prefix) && required[:len(prefix)] == prefix {
				return true
			}
		}
	}
	return false
}
