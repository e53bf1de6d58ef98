// Package seed loads a YAML fixture of reference data into an empty or partially seeded database.
package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Districts    []District `yaml:"districts"`
	Subjects     []Subject  `yaml:"subjects"`
	SectionNames []string   `yaml:"section_names"`
	Focuses      []string   `yaml:"focuses"`
	Admin        *Admin     `yaml:"admin"`
}

type District struct {
	Name          string         `yaml:"name"`
	Domains       []string       `yaml:"domains"`
	Schools       []string       `yaml:"schools"`
	AcademicYears []AcademicYear `yaml:"academic_years"`
}

type AcademicYear struct {
	Name       string `yaml:"name"`
	StartDate  string `yaml:"start_date"`
	ExpiryDate string `yaml:"expiry_date"`
}

type Subject struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Units       []Unit `yaml:"units"`
}

type Unit struct {
	Name     string    `yaml:"name"`
	Chapters []Chapter `yaml:"chapters"`
}

type Chapter struct {
	Name    string   `yaml:"name"`
	Lessons []string `yaml:"lessons"`
}

type Admin struct {
	Email     string `yaml:"email"`
	Password  string `yaml:"password"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
}

func Decode(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed fixture: %w", err)
	}
	return &f, nil
}

func LoadFile(path string) (*Fixture, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed fixture: %w", err)
	}
	defer fh.Close()
	return Decode(fh)
}
