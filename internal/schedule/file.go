package schedule

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	appLog "timetable/internal/log"
	"timetable/internal/model"
	"timetable/internal/window"
)

// sessionRecord is one entry of the YAML schedule file.
//
// "teacher" and "classroom" are accepted as aliases of "instructor" and
// "location".
type sessionRecord struct {
	Time       string `yaml:"time"`
	Name       string `yaml:"name"`
	Code       string `yaml:"code"`
	Instructor string `yaml:"instructor"`
	Teacher    string `yaml:"teacher"`
	Location   string `yaml:"location"`
	Classroom  string `yaml:"classroom"`
}

func (r sessionRecord) toSession() (model.Session, error) {
	w, err := window.Parse(r.Time)
	if err != nil {
		return model.Session{}, err
	}
	instructor := r.Instructor
	if instructor == "" {
		instructor = r.Teacher
	}
	location := r.Location
	if location == "" {
		location = r.Classroom
	}
	return model.Session{
		Window:     w,
		Name:       r.Name,
		Location:   location,
		Code:       model.Optional(r.Code),
		Instructor: model.Optional(instructor),
	}, nil
}

// LoadFile reads a YAML schedule file.
//
// The document is a mapping from day name to a list of sessions:
//
//	Monday:
//	  - time: "09:15-10:05"
//	    name: Intel Unnati
//	    code: HED
//	    instructor: Dr. Vandana Shrama
//	    location: Lab A
//
// Day order follows the file. A malformed time window fails the whole load
// and the error names the day and the entry index.
func LoadFile(path string) (model.Schedule, error) {
	if path == "" {
		return model.Schedule{}, errors.New("schedule: file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("schedule: read %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return model.Schedule{}, fmt.Errorf("schedule: %s: %w", path, err)
	}
	appLog.Info("schedule file loaded", "path", path, "days", len(s.Days), "sessions", s.Len())
	return s, nil
}

// Decode parses a YAML schedule document (see LoadFile).
func Decode(data []byte) (model.Schedule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Schedule{}, err
	}

	s := model.NewSchedule()
	if len(doc.Content) == 0 {
		// Empty document.
		return s, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return model.Schedule{}, fmt.Errorf("line %d: expected a mapping of day name to sessions", root.Line)
	}

	// yaml.Node keeps mapping keys in file order, which a map[string] would lose.
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]
		day := keyNode.Value
		if s.HasDay(day) {
			return model.Schedule{}, fmt.Errorf("line %d: day %q listed twice", keyNode.Line, day)
		}

		var records []sessionRecord
		if err := valNode.Decode(&records); err != nil {
			return model.Schedule{}, fmt.Errorf("day %q: %w", day, err)
		}

		sessions := make([]model.Session, 0, len(records))
		for idx, rec := range records {
			sess, err := rec.toSession()
			if err != nil {
				return model.Schedule{}, fmt.Errorf("day %q entry %d (%s): %w", day, idx, rec.Name, err)
			}
			sessions = append(sessions, sess)
		}
		s.Append(day, sessions...)
	}

	return s, nil
}
