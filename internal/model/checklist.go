package model

import "time"

// Checklist status constants.
const (
	ChecklistStatusDraft      = "draft"
	ChecklistStatusInProgress = "in_progress"
	ChecklistStatusCompleted  = "completed"
	ChecklistStatusPending    = "pending"
	ChecklistStatusCancelled  = "cancelled"
)

// Checklist item status constants.
const (
	ItemStatusNotStarted    = "not_started"
	ItemStatusInProgress    = "in_progress"
	ItemStatusDone          = "done"
	ItemStatusNotApplicable = "not_applicable"
)

// Normalized priority constants (lower number = higher priority).
const (
	PriorityCritical = 1
	PriorityHigh     = 2
	PriorityMedium   = 3
	PriorityLow      = 4
)

// Actor is an authenticated principal performing a mutation. It is supplied
// by the identity provider and recorded on completion and signature fields.
type Actor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Attachment is an opaque evidence reference. The engine never reads the
// underlying bytes; it only counts and stores these handles. The ID doubles
// as the storage key inside the evidence vault.
type Attachment struct {
	ID          string    `json:"id" db:"id"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	SHA256      string    `json:"sha256" db:"sha256"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by" db:"uploaded_by"`
}

// ChecklistItem is a single verification item within a checklist.
// Its lifecycle is bound to the parent checklist (CASCADE delete).
type ChecklistItem struct {
	ID          string `json:"id" db:"id"`
	ChecklistID string `json:"checklist_id" db:"checklist_id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
	Priority    int    `json:"priority" db:"priority"`
	Status      string `json:"status" db:"status"`

	// Obligatory items must be resolved (done or not applicable) before
	// the parent checklist can be signed.
	Obligatory bool `json:"is_obligatory" db:"obligatory"`

	// RequiresAttachment makes completion conditional on at least one
	// recorded evidence attachment.
	RequiresAttachment bool `json:"requires_attachment" db:"requires_attachment"`

	// Attachments is the ordered list of evidence references.
	Attachments []Attachment `json:"attachments,omitempty" db:"-"`

	Observations string `json:"observations,omitempty" db:"observations"`

	// CompletedAt and CompletedBy are present iff Status is done.
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CompletedBy string     `json:"completed_by,omitempty" db:"completed_by"`

	SortOrder int `json:"sort_order" db:"sort_order"`
}

// Resolved reports whether the item counts as resolved for aggregation
// (done or not applicable).
func (i ChecklistItem) Resolved() bool {
	return i.Status == ItemStatusDone || i.Status == ItemStatusNotApplicable
}

// Progress is derived from the item set; it is never stored independently
// and never hand-edited.
type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// Signature is the terminal attestation record binding an identity and
// timestamp to a completed checklist. Data is an opaque blob produced by
// the signature capture collaborator.
type Signature struct {
	SignerName  string    `json:"signer_name" db:"signer_name"`
	SignerEmail string    `json:"signer_email" db:"signer_email"`
	SignedAt    time.Time `json:"signed_at" db:"signed_at"`
	Data        []byte    `json:"signature_data" db:"signature_data"`
}

// Checklist is a compliance checklist owned by exactly one site and one
// responsible party for its lifetime. Its item set is fixed at creation;
// only per-item fields mutate afterwards.
type Checklist struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description,omitempty" db:"description"`

	SiteID        string `json:"site_id" db:"site_id"`
	ResponsibleID string `json:"responsible_id" db:"responsible_id"`

	// SiteName and ResponsibleName are populated by queries that join
	// against sites and responsibles.
	SiteName        string `json:"site_name,omitempty" db:"-"`
	ResponsibleName string `json:"responsible_name,omitempty" db:"-"`

	Status  string     `json:"status" db:"status"`
	DueDate *time.Time `json:"due_date,omitempty" db:"due_date"`

	Items []ChecklistItem `json:"items" db:"-"`

	// Progress is recomputed from Items after every mutation.
	Progress Progress `json:"progress" db:"-"`

	// Signature is present iff Status is completed.
	Signature *Signature `json:"signature,omitempty" db:"-"`

	// TemplateID records provenance only; it has no behavioral effect.
	TemplateID *string `json:"template_used,omitempty" db:"template_id"`

	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" db:"cancelled_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Terminal reports whether the checklist is in a terminal state.
func (c Checklist) Terminal() bool {
	return c.Status == ChecklistStatusCompleted || c.Status == ChecklistStatusCancelled
}

// Clone returns a deep copy of the checklist. Export and print consumers
// receive clones so they cannot write back into live state.
func (c Checklist) Clone() Checklist {
	out := c
	out.Items = make([]ChecklistItem, len(c.Items))
	for i, item := range c.Items {
		out.Items[i] = item
		if len(item.Attachments) > 0 {
			out.Items[i].Attachments = append([]Attachment(nil), item.Attachments...)
		}
	}
	if c.Signature != nil {
		sig := *c.Signature
		sig.Data = append([]byte(nil), c.Signature.Data...)
		out.Signature = &sig
	}
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	if c.TemplateID != nil {
		t := *c.TemplateID
		out.TemplateID = &t
	}
	if c.StartedAt != nil {
		t := *c.StartedAt
		out.StartedAt = &t
	}
	if c.CompletedAt != nil {
		t := *c.CompletedAt
		out.CompletedAt = &t
	}
	if c.CancelledAt != nil {
		t := *c.CancelledAt
		out.CancelledAt = &t
	}
	return out
}
