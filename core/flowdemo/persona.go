package flowdemo

import "strings"

// Persona is the audience a flow demo is rendered for.
type Persona string

const (
	Student Persona = "student"
	Teacher Persona = "teacher"
	Parent  Persona = "parent"
	Admin   Persona = "admin"

	DefaultPersona = Student
)

// Personas lists every known persona in display order.
var Personas = []Persona{Student, Teacher, Parent, Admin}

var personaNames = map[Persona]string{
	Student: "Student",
	Teacher: "Teacher",
	Parent:  "Parent",
	Admin:   "Admin",
}

// ParsePersona returns the persona matching s (case-insensitive) and whether it is known.
func ParsePersona(s string) (Persona, bool) {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	return p, p.Valid()
}

func (p Persona) Valid() bool {
	_, ok := personaNames[p]
	return ok
}

// Name is the human-readable persona label.
func (p Persona) Name() string { return personaNames[p] }

func (p Persona) String() string { return string(p) }
