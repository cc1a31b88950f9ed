package grader

// GradeReq is the wire format of one grading job. It carries the full
// activity definition plus the learner's input overrides so a worker
// process can grade without any other data source.
type GradeReq struct {
	GradeUuid string `json:"grade_uuid"`
	ResSqsUrl string `json:"res_sqs_url"`

	Activity ReqActivity       `json:"activity"`
	Inputs   map[string]string `json:"inputs"`
}

// ReqActivity describes the exercise being graded.
type ReqActivity struct {
	EntryPoint string `json:"entry_point"`

	// Skeleton lists the exercise's baseline files by logical name.
	Skeleton []ReqFile `json:"skeleton"`

	// Context optionally points at a TOML file of variables made
	// available to the executed entry point.
	Context *ReqFile `json:"context"`

	// Suite identifies a built-in assertion suite. Ignored when
	// SuiteFile is set.
	Suite string `json:"suite"`
	// SuiteFile optionally carries a declarative suite definition.
	SuiteFile *ReqFile `json:"suite_file"`

	Worker   string `json:"worker"`
	Question string `json:"question"`
}

// ReqFile names a file and provides its content through exactly one of
// three channels: inline content, a download URL, or a sha256 of a blob
// already present in the local store. Sha256 doubles as an integrity
// check when set alongside Url.
type ReqFile struct {
	Fname string `json:"fname"`

	Sha256  *string `json:"sha256"`
	Url     *string `json:"url"`
	Content *string `json:"content"`
}
