// Package cases contiene DTOs para endpoints de casos de rescate.
package cases

// CreateCaseRequest representa la solicitud de creación de un caso.
type CreateCaseRequest struct {
	Species              string `json:"species"`
	Description          string `json:"description"`
	Status               string `json:"status,omitempty"`
	Urgency              string `json:"urgency"`
	LocationFound        string `json:"location_found"`
	LocationCurrent      string `json:"location_current,omitempty"`
	DateRescued          string `json:"date_rescued,omitempty"` // RFC 3339
	ConditionDescription string `json:"condition_description,omitempty"`
	Injuries             string `json:"injuries,omitempty"`
	Treatments           string `json:"treatments,omitempty"`
	Medications          string `json:"medications,omitempty"`
	SpecialNeeds         string `json:"special_needs,omitempty"`
	DietaryRequirements  string `json:"dietary_requirements,omitempty"`
	BehaviorNotes        string `json:"behavior_notes,omitempty"`
	PublicNotes          string `json:"public_notes,omitempty"`
	IsPublic             *bool  `json:"is_public,omitempty"` // default true
}

// UpdateCaseRequest representa una actualización parcial: solo los campos
// presentes en el JSON se aplican.
type UpdateCaseRequest struct {
	Species              *string `json:"species,omitempty"`
	Description          *string `json:"description,omitempty"`
	Status               *string `json:"status,omitempty"`
	Urgency              *string `json:"urgency,omitempty"`
	LocationFound        *string `json:"location_found,omitempty"`
	LocationCurrent      *string `json:"location_current,omitempty"`
	DateRescued          *string `json:"date_rescued,omitempty"`
	ConditionDescription *string `json:"condition_description,omitempty"`
	Injuries             *string `json:"injuries,omitempty"`
	Treatments           *string `json:"treatments,omitempty"`
	Medications          *string `json:"medications,omitempty"`
	SpecialNeeds         *string `json:"special_needs,omitempty"`
	DietaryRequirements  *string `json:"dietary_requirements,omitempty"`
	BehaviorNotes        *string `json:"behavior_notes,omitempty"`
	PublicNotes          *string `json:"public_notes,omitempty"`
	IsPublic             *bool   `json:"is_public,omitempty"`
}

// CaseResponse es la vista de un caso. Los campos clínicos y la ubicación
// precisa se omiten para lectores anónimos (redacción en el service).
type CaseResponse struct {
	ID                   string                 `json:"id"`
	Species              string                 `json:"species"`
	Description          string                 `json:"description"`
	Status               string                 `json:"status"`
	Urgency              string                 `json:"urgency"`
	LocationFound        string                 `json:"location_found,omitempty"`
	LocationFoundGeneral string                 `json:"location_found_general"`
	LocationCurrent      string                 `json:"location_current,omitempty"`
	DateRescued          string                 `json:"date_rescued,omitempty"`
	ConditionDescription string                 `json:"condition_description,omitempty"`
	Injuries             string                 `json:"injuries,omitempty"`
	Treatments           string                 `json:"treatments,omitempty"`
	Medications          string                 `json:"medications,omitempty"`
	SpecialNeeds         string                 `json:"special_needs,omitempty"`
	DietaryRequirements  string                 `json:"dietary_requirements,omitempty"`
	BehaviorNotes        string                 `json:"behavior_notes,omitempty"`
	PublicNotes          string                 `json:"public_notes,omitempty"`
	IsPublic             bool                   `json:"is_public"`
	PrimaryOwnerID       string                 `json:"primary_owner_id"`
	CreatedAt            string                 `json:"created_at"`
	UpdatedAt            string                 `json:"updated_at"`
	Photos               []PhotoResponse        `json:"photos,omitempty"`
	Collaborators        []CollaboratorResponse `json:"collaborators,omitempty"`
	Activity             []ActivityResponse     `json:"activity,omitempty"`
}

// CaseSummaryResponse es la fila de un listado.
type CaseSummaryResponse struct {
	ID                   string `json:"id"`
	Species              string `json:"species"`
	Description          string `json:"description"`
	Status               string `json:"status"`
	Urgency              string `json:"urgency"`
	LocationFoundGeneral string `json:"location_found_general"`
	DateRescued          string `json:"date_rescued,omitempty"`
	IsPublic             bool   `json:"is_public"`
	OwnerName            string `json:"owner_name"`
	OwnerRole            string `json:"owner_role"`
	PrimaryPhotoURL      string `json:"primary_photo_url,omitempty"`
	PrimaryThumbURL      string `json:"primary_thumbnail_url,omitempty"`
	CollaboratorCount    int    `json:"collaborator_count"`
	CreatedAt            string `json:"created_at"`
	UpdatedAt            string `json:"updated_at"`
}

// ListCasesResponse es la página de un listado con su total.
type ListCasesResponse struct {
	Cases []CaseSummaryResponse `json:"cases"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// AddCollaboratorRequest agrega un usuario como colaborador.
type AddCollaboratorRequest struct {
	UserID    string `json:"user_id"`
	RoleLabel string `json:"role_label,omitempty"`
}

// CollaboratorResponse es la vista de una membresía.
type CollaboratorResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	RoleLabel string `json:"role_label,omitempty"`
	AddedAt   string `json:"added_at"`
}

// TransferOwnershipRequest transfiere la propiedad del caso.
type TransferOwnershipRequest struct {
	NewOwnerID string `json:"new_owner_id"`
}

// AddNoteRequest agrega una nota al historial del caso.
type AddNoteRequest struct {
	Note     string `json:"note"`
	IsPublic *bool  `json:"is_public,omitempty"` // default true
}

// ActivityResponse es una entrada del historial.
type ActivityResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name,omitempty"`
	ActionType  string `json:"action_type"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	CreatedAt   string `json:"created_at"`
}

// PhotoResponse es la vista de una foto adjunta.
type PhotoResponse struct {
	ID           string `json:"id"`
	CaseID       string `json:"case_id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	OrderIndex   int    `json:"order_index"`
	IsPrimary    bool   `json:"is_primary"`
	UploadedAt   string `json:"uploaded_at"`
}

// StatsResponse son los contadores públicos agregados.
type StatsResponse struct {
	ActiveCases      int            `json:"active_cases"`
	RescuedThisMonth int            `json:"rescued_this_month"`
	InFosterCare     int            `json:"in_foster_care"`
	AdoptedThisMonth int            `json:"adopted_this_month"`
	ByUrgency        map[string]int `json:"by_urgency"`
	ByStatus         map[string]int `json:"by_status"`
	BySpecies        map[string]int `json:"by_species"`
}
