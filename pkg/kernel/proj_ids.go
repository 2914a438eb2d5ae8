package kernel

type ResumeID string

func NewResumeID(id string) ResumeID { return ResumeID(id) }
func (r ResumeID) String() string    { return string(r) }
func (r ResumeID) IsEmpty() bool     { return string(r) == "" }

type AnnotationID string

func NewAnnotationID(id string) AnnotationID { return AnnotationID(id) }
func (a AnnotationID) String() string        { return string(a) }
func (a AnnotationID) IsEmpty() bool         { return string(a) == "" }
