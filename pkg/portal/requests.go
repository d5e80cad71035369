package portal

// Request DTOs

// CreateContentRequest contains parameters for publishing new content.
// Format/Visibility/Status are raw client strings validated against the
// enumerated sets by the service; empty values take defaults. StagedFiles
// are uploaded sequentially; files that fail upstream are dropped from
// the record rather than failing the request.
type CreateContentRequest struct {
	Title       string
	Description string
	Format      string
	Sections    []string
	Visibility  string
	Status      string
	Author      string
	Tags        []string
	OwnerID     string
	StagedFiles []StagedFile
}

// UpdateContentRequest contains parameters for a partial update. Nil
// pointer fields are left untouched. A non-empty StagedFiles set
// replaces the record's entire file set; partial file edits are not
// supported.
type UpdateContentRequest struct {
	Title       *string
	Description *string
	Format      *string
	Sections    *[]string
	Visibility  *string
	Status      *string
	Author      *string
	Tags        *[]string
	StagedFiles []StagedFile
}
