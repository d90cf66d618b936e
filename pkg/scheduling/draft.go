package scheduling

import (
	"github.com/google/uuid"

	"github.com/goliatone/go-studyform/pkg/model"
)

// Draft is the editable state of an event. IDs are kept as strings so an
// unselected picker is simply "".
type Draft struct {
	EventID       uuid.UUID
	StudyID       string
	SubjectID     string
	ProcedureID   string
	Start         string
	End           string
	Status        model.EventStatus
	Notes         string
	ProcedureData model.Values
}

// Editing reports whether the draft refers to an existing event.
func (d Draft) Editing() bool {
	return d.EventID != uuid.Nil
}

// ProceduresForStudy filters procedures down to those of studyID.
func ProceduresForStudy(procedures []model.Procedure, studyID string) []model.Procedure {
	id, err := uuid.Parse(studyID)
	if err != nil {
		return nil
	}
	var out []model.Procedure
	for _, p := range procedures {
		if p.StudyID == id {
			out = append(out, p)
		}
	}
	return out
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
