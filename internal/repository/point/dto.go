package point

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/helix-hr/staffrag/internal/domain/employee"
)

// Hash payload fields. Tag and numeric fields mirror the collection's FT
// schema; __content holds the embedded text, __vector the raw FLOAT32
// little-endian vector bytes.
const (
	fieldContent    = "__content"
	fieldVector     = "__vector"
	fieldName       = "name"
	fieldSkills     = "skills"
	fieldProjects   = "projects"
	fieldExperience = "experience_years"
	fieldAvail      = "availability"
)

// pointToHash converts a Point to a map for HSET.
func pointToHash(p Point) map[string]string {
	return map[string]string{
		fieldContent:    p.Text,
		fieldVector:     encodeVector(p.Vector),
		fieldName:       p.Meta.Name,
		fieldSkills:     strings.Join(p.Meta.Skills, ","),
		fieldProjects:   strings.Join(p.Meta.Projects, ","),
		fieldExperience: strconv.Itoa(p.Meta.ExperienceYears),
		fieldAvail:      p.Meta.Availability,
	}
}

// pointFromHash hydrates a Point from an HGETALL result map.
func pointFromHash(id string, m map[string]string) (Point, error) {
	emp, text, err := ParseFields(m)
	if err != nil {
		return Point{}, fmt.Errorf("point %s: %w", id, err)
	}
	emp.ID = id

	return Point{
		ID:     id,
		Text:   text,
		Vector: decodeVector(m[fieldVector]),
		Meta:   emp,
	}, nil
}

// ParseFields hydrates an employee record and document text from stored
// hash fields. The search repository reuses it to parse FT.SEARCH hits.
// The ID is not part of the payload; callers set it from the key.
func ParseFields(m map[string]string) (employee.Employee, string, error) {
	exp := 0
	if s := m[fieldExperience]; s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return employee.Employee{}, "", fmt.Errorf("invalid experience_years %q: %w", s, err)
		}
		exp = parsed
	}

	return employee.Employee{
		Name:            m[fieldName],
		Skills:          splitList(m[fieldSkills]),
		ExperienceYears: exp,
		Projects:        splitList(m[fieldProjects]),
		Availability:    m[fieldAvail],
	}, m[fieldContent], nil
}

// PayloadFields lists the hash fields to fetch when the vector is not needed.
func PayloadFields() []string {
	return []string{fieldContent, fieldName, fieldSkills, fieldProjects, fieldExperience, fieldAvail}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func encodeVector(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func decodeVector(s string) []float32 {
	if len(s) < 4 {
		return nil
	}
	v := make([]float32, len(s)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32([]byte(s[i*4 : i*4+4])))
	}
	return v
}
