package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/config"
	"github.com/SAP-F-2025/exam-session-service/internal/models"
	"github.com/SAP-F-2025/exam-session-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/validator"
	"github.com/SAP-F-2025/exam-session-service/pkg"
)

// fixture is the db.json layout: exams and a flat question list tagged with
// the exam they belong to.
type fixture struct {
	Exams     []models.Exam     `json:"exams"`
	Questions []json.RawMessage `json:"questions"`
}

type examBundle struct {
	exam      models.Exam
	questions []models.Question
}

func main() {
	file := flag.String("file", "db.json", "fixture file with exams and questions")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("Failed to open fixture", "file", *file, "error", err)
		os.Exit(1)
	}
	bundles, err := readFixture(f)
	f.Close()
	if err != nil {
		logger.Error("Failed to read fixture", "file", *file, "error", err)
		os.Exit(1)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	catalog := services.NewCatalogService(postgres.NewExamPostgreSQL(db), logger, validator.New())
	imported := 0
	for _, b := range bundles {
		exam := b.exam
		if err := catalog.ImportExam(ctx, &exam, b.questions); err != nil {
			logger.Error("Failed to import exam", "exam_id", exam.ID, "error", err)
			continue
		}
		imported++
		logger.Info("Imported exam", "exam_id", exam.ID, "questions", len(b.questions))
	}

	logger.Info("Seed finished", "imported", imported, "total", len(bundles))
	if imported < len(bundles) {
		os.Exit(1)
	}
}

// readFixture groups questions under their exam. Questions follow the exam's
// questionIds when it lists them and file order otherwise.
func readFixture(r io.Reader) ([]examBundle, error) {
	var fx fixture
	if err := json.NewDecoder(r).Decode(&fx); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	byExam := make(map[string][]models.Question)
	for i, raw := range fx.Questions {
		var owner struct {
			ExamID string `json:"examId"`
		}
		if err := json.Unmarshal(raw, &owner); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		var q models.Question
		if err := json.Unmarshal(raw, &q); err != nil {
			return nil, fmt.Errorf("question %d of exam %s: %w", i, owner.ExamID, err)
		}
		byExam[owner.ExamID] = append(byExam[owner.ExamID], q)
	}

	bundles := make([]examBundle, 0, len(fx.Exams))
	for _, exam := range fx.Exams {
		questions := byExam[exam.ID]
		if len(exam.QuestionIDs) > 0 {
			questions = orderByIDs(questions, exam.QuestionIDs)
		}
		bundles = append(bundles, examBundle{exam: exam, questions: questions})
	}
	return bundles, nil
}

// orderByIDs puts listed questions first in the listed order; the rest keep
// their relative order after them.
func orderByIDs(questions []models.Question, ids []string) []models.Question {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]models.Question, 0, len(questions))
	used := make(map[string]bool, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok && !used[id] {
			ordered = append(ordered, q)
			used[id] = true
		}
	}
	for _, q := range questions {
		if !used[q.ID] {
			ordered = append(ordered, q)
		}
	}
	return ordered
}
