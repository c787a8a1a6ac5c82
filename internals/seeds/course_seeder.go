package seeds

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	model "coursedig_backend/internals/features/courses/model"
	helper "coursedig_backend/internals/helpers"
)

// CourseSeed is one catalog entry as it appears in the seed file.
type CourseSeed struct {
	Title         string `json:"title"`
	Summary       string `json:"summary"`
	Description   string `json:"description"`
	Level         string `json:"level"`
	DurationWeeks int    `json:"duration_weeks"`
	IsPublished   bool   `json:"is_published"`
}

type wrappedSeed struct {
	Items []CourseSeed `json:"items"`
}

// DecodeCourseSeeds accepts exactly two shapes: a bare JSON array of entries,
// or an object {"items":[...]}. Anything else is rejected rather than
// guessed at.
func DecodeCourseSeeds(data []byte) ([]CourseSeed, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("seed file is empty")
	}

	switch trimmed[0] {
	case '[':
		var items []CourseSeed
		if err := sonic.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode seed array: %w", err)
		}
		return items, nil
	case '{':
		var wrapped wrappedSeed
		if err := sonic.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("decode seed object: %w", err)
		}
		if wrapped.Items == nil {
			return nil, fmt.Errorf(`seed object must carry an "items" array`)
		}
		return wrapped.Items, nil
	default:
		return nil, fmt.Errorf("seed file must be a JSON array or an object with items")
	}
}

// SeedCourses loads the seed file and inserts any course whose slug is not
// already present. Existing courses are left untouched.
func SeedCourses(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	items, err := DecodeCourseSeeds(data)
	if err != nil {
		return err
	}

	opts := helper.SlugOptions{
		Table:            "courses",
		SlugColumn:       "course_slug",
		SoftDeleteColumn: "course_deleted_at",
		MaxLen:           120,
		DefaultBase:      "course",
	}

	inserted := 0
	for _, s := range items {
		if strings.TrimSpace(s.Title) == "" || !model.ValidCourseLevel(s.Level) {
			log.Printf("[SEED] skipping invalid course entry %q", s.Title)
			continue
		}

		slug := helper.GenerateSlug(s.Title)
		var cnt int64
		if err := db.Model(&model.CourseModel{}).Where("course_slug = ?", slug).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			continue
		}

		uniqueSlug, err := helper.GenerateUniqueSlug(db, opts, s.Title)
		if err != nil {
			return err
		}
		row := model.CourseModel{
			CourseSlug:          uniqueSlug,
			CourseTitle:         strings.TrimSpace(s.Title),
			CourseSummary:       strings.TrimSpace(s.Summary),
			CourseDescription:   strings.TrimSpace(s.Description),
			CourseLevel:         s.Level,
			CourseDurationWeeks: s.DurationWeeks,
			CourseIsPublished:   s.IsPublished,
		}
		if err := db.Create(&row).Error; err != nil {
			return fmt.Errorf("seed course %q: %w", s.Title, err)
		}
		inserted++
	}

	log.Printf("[SEED] courses: %d inserted, %d in file", inserted, len(items))
	return nil
}
