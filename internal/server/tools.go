// internal/server/tools.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	log "github.com/sirupsen/logrus"

	"mcp-health-journal/internal/analysis"
	"mcp-health-journal/internal/models"
	"mcp-health-journal/internal/storage"
)

type LogFoodParams struct {
	Date         string   `json:"date,omitempty" description:"Date eaten (YYYY-MM-DD, defaults to today)"`
	Time         string   `json:"time,omitempty" description:"Time eaten (HH:MM, defaults to now)"`
	MealCategory string   `json:"type,omitempty" description:"breakfast, lunch, dinner or snack"`
	Description  string   `json:"description" description:"Description of the meal eaten"`
	Ingredients  []string `json:"ingredients,omitempty" description:"Ingredients; extracted from the description when omitted"`
	Portion      string   `json:"portion,omitempty" description:"Portion size"`
	Notes        string   `json:"notes,omitempty" description:"Free-text notes"`
}

type LogSymptomParams struct {
	Date        string `json:"date,omitempty" description:"Date (YYYY-MM-DD, defaults to today)"`
	Time        string `json:"time,omitempty" description:"Time (HH:MM, defaults to now)"`
	Symptom     string `json:"symptom" description:"Symptom name, e.g. bloating"`
	Severity    string `json:"severity" description:"mild, moderate or severe"`
	Description string `json:"description,omitempty" description:"Details"`
	Triggers    string `json:"triggers,omitempty" description:"Suspected triggers"`
}

type LogWaterParams struct {
	Date     string  `json:"date,omitempty" description:"Date (YYYY-MM-DD, defaults to today)"`
	Time     string  `json:"time,omitempty" description:"Time (HH:MM, defaults to now)"`
	AmountMl float64 `json:"amount" description:"Amount drunk in ml"`
}

type LogSleepParams struct {
	Date    string `json:"date,omitempty" description:"Date woken (YYYY-MM-DD, defaults to today)"`
	Quality int    `json:"quality" description:"Sleep quality from 1 (worst) to 5 (best)"`
}

type LogExerciseParams struct {
	Date     string `json:"date,omitempty" description:"Date (YYYY-MM-DD, defaults to today)"`
	Time     string `json:"time,omitempty" description:"Time (HH:MM, defaults to now)"`
	Name     string `json:"name,omitempty" description:"Activity name"`
	Duration int    `json:"duration,omitempty" description:"Duration in minutes"`
}

type LogMedicationParams struct {
	Date           string `json:"date,omitempty" description:"Date (YYYY-MM-DD, defaults to today)"`
	Time           string `json:"time,omitempty" description:"Time (HH:MM, defaults to now)"`
	MedicationName string `json:"medication_name" description:"Medication taken"`
	Dosage         string `json:"dosage,omitempty" description:"Dosage"`
}

type LogWellnessParams struct {
	Date      string `json:"date,omitempty" description:"Date (YYYY-MM-DD, defaults to today)"`
	Overall   string `json:"overall,omitempty" description:"happy, neutral, sad or very-sad"`
	Morning   string `json:"morning,omitempty" description:"Morning mood"`
	Afternoon string `json:"afternoon,omitempty" description:"Afternoon mood"`
	Evening   string `json:"evening,omitempty" description:"Evening mood"`
}

type AddAllergyParams struct {
	Name     string   `json:"name" description:"Allergen name, e.g. peanut"`
	Severity string   `json:"severity" description:"mild, moderate, severe or anaphylaxis"`
	Symptoms []string `json:"symptoms,omitempty" description:"Typical reaction symptoms"`
}

type DeleteEntryParams struct {
	Category string `json:"category" description:"food, symptom, water, sleep, exercise, medication, wellness or allergy"`
	ID       string `json:"id" description:"Entry id"`
}

type GetEntriesParams struct {
	StartDate string `json:"start_date,omitempty" description:"Start date (YYYY-MM-DD)"`
	EndDate   string `json:"end_date,omitempty" description:"End date (YYYY-MM-DD)"`
	Category  string `json:"category,omitempty" description:"Only return this category: food, symptom, water, sleep, exercise, medication, wellness or allergy"`
}

// AnalysisParams selects the journal range and window for analysis tools.
type AnalysisParams struct {
	StartDate    string  `json:"start_date,omitempty" description:"Start date (YYYY-MM-DD); overrides days"`
	EndDate      string  `json:"end_date,omitempty" description:"End date (YYYY-MM-DD)"`
	Days         *int    `json:"days,omitempty" description:"Analyse the last N days (7, 30, 90) or 0 for all time"`
	WindowHours  float64 `json:"window_hours,omitempty" description:"Hours after a meal to look for effects (2, 6, 12 or 24)"`
	LookbackDays int     `json:"lookback_days,omitempty" description:"Days scanned for allergy warnings"`
}

type PredictMealParams struct {
	AnalysisParams
	Ingredients []string `json:"ingredients" description:"Ingredients of the meal being considered"`
}

// extractParams safely extracts parameters from the request arguments
func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal arguments: %v", ErrInvalidParams, err)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	return nil
}

type toolDef struct {
	name        string
	description string
	params      interface{}
	handler     toolHandler
}

func (s *JournalServer) toolDefs() []toolDef {
	return []toolDef{
		{"log_food", "Log a meal. Ingredients are extracted from the description when omitted.", LogFoodParams{}, s.handleLogFood},
		{"log_symptom", "Log a symptom and its severity", LogSymptomParams{}, s.handleLogSymptom},
		{"log_water", "Log water drunk, in ml", LogWaterParams{}, s.handleLogWater},
		{"log_sleep", "Log last night's sleep quality", LogSleepParams{}, s.handleLogSleep},
		{"log_exercise", "Log an exercise session", LogExerciseParams{}, s.handleLogExercise},
		{"log_medication", "Log a medication dose", LogMedicationParams{}, s.handleLogMedication},
		{"log_wellness", "Log the day's mood check-in", LogWellnessParams{}, s.handleLogWellness},
		{"add_allergy", "Record a known allergy", AddAllergyParams{}, s.handleAddAllergy},
		{"list_allergies", "List known allergies", nil, s.handleListAllergies},
		{"delete_entry", "Delete a journal entry by category and id", DeleteEntryParams{}, s.handleDeleteEntry},
		{"get_entries", "Get journal entries for a date range, optionally one category", GetEntriesParams{}, s.handleGetEntries},
		{"analyze_correlations", "Find ingredients that tend to be followed by symptoms", AnalysisParams{}, s.handleAnalyzeCorrelations},
		{"get_positive_correlations", "Find ingredients that tend to be followed by a better mood", AnalysisParams{}, s.handleGetPositiveCorrelations},
		{"get_allergy_warnings", "List recent meals containing known allergens", AnalysisParams{}, s.handleGetAllergyWarnings},
		{"get_insights", "Full report: correlations, allergy warnings, summary statistics and timeline", AnalysisParams{}, s.handleGetInsights},
		{"get_timeline", "Meals and symptoms in chronological order", AnalysisParams{}, s.handleGetTimeline},
		{"predict_meal", "Predict how a meal is likely to affect you", PredictMealParams{}, s.handlePredictMeal},
	}
}

// registerTools builds the routing table used by handleHTTP and registers
// every tool with the MCP server.
func (s *JournalServer) registerTools() {
	defs := s.toolDefs()
	s.tools = make(map[string]toolHandler, len(defs))

	names := make([]string, 0, len(defs))
	for _, def := range defs {
		s.tools[def.name] = def.handler
		names = append(names, def.name)
		if s.server != nil {
			s.server.RegisterTool(newTool(def.name, def.description, def.params), s.mcpHandler(def.name, def.handler))
		}
	}
	sort.Strings(names)
	log.WithField("tools", strings.Join(names, ",")).Debug("registered tools")
}

// mcpHandler adapts a tool handler to the MCP server. Rejected input is
// reported as a tool error result so the client can correct the call.
func (s *JournalServer) mcpHandler(name string, handler toolHandler) server.ToolHandlerFunc {
	return func(req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
		result, err := handler(context.Background(), req)
		if err == nil {
			return result, nil
		}

		logger := log.WithField("tool", name).WithError(err)
		if statusFor(err) >= http.StatusInternalServerError {
			logger.Error("tool call failed")
			return nil, err
		}
		logger.Info("tool call rejected")
		return &protocol.CallToolResult{
			Content: []protocol.Content{protocol.TextContent{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}
}

// defaultDateTime fills an empty date or time from the server clock.
func (s *JournalServer) defaultDateTime(date, clock string) (string, string) {
	now := s.now()
	if date == "" {
		date = now.Format(models.DateLayout)
	}
	if clock == "" {
		clock = now.Format(models.TimeLayout)
	}
	return date, clock
}

func (s *JournalServer) handleLogFood(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogFoodParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, clock := s.defaultDateTime(params.Date, params.Time)
	entry := &models.FoodEvent{
		Date:         date,
		Time:         clock,
		MealCategory: models.MealCategory(params.MealCategory),
		Description:  params.Description,
		Ingredients:  params.Ingredients,
		Portion:      params.Portion,
		Notes:        params.Notes,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if len(entry.Ingredients) == 0 {
		entry.Ingredients = s.samplingClient.ExtractIngredients(ctx, entry.Description)
	}

	if err := s.storage.SaveFood(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save food entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func (s *JournalServer) handleLogSymptom(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogSymptomParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, clock := s.defaultDateTime(params.Date, params.Time)
	entry := &models.SymptomEvent{
		Date:        date,
		Time:        clock,
		Symptom:     strings.TrimSpace(params.Symptom),
		Severity:    models.Severity(params.Severity),
		Description: params.Description,
		Triggers:    params.Triggers,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveSymptom(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save symptom entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func (s *JournalServer) handleLogWater(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogWaterParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, clock := s.defaultDateTime(params.Date, params.Time)
	entry := &models.WaterEvent{Date: date, Time: clock, AmountMl: params.AmountMl}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveWater(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save water entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func (s *JournalServer) handleLogSleep(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogSleepParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, _ := s.defaultDateTime(params.Date, "")
	entry := &models.SleepSample{Date: date, Quality: params.Quality}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveSleep(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save sleep entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func (s *JournalServer) handleLogExercise(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogExerciseParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, clock := s.defaultDateTime(params.Date, params.Time)
	entry := &models.ExerciseEvent{Date: date, Time: clock, Name: params.Name, DurationMinutes: params.Duration}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveExercise(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save exercise entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func (s *JournalServer) handleLogMedication(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogMedicationParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, clock := s.defaultDateTime(params.Date, params.Time)
	entry := &models.MedicationLogEvent{
		Date:           date,
		Time:           clock,
		MedicationName: strings.TrimSpace(params.MedicationName),
		Dosage:         params.Dosage,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveMedication(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save medication entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func optionalMood(value string) *models.Mood {
	if value == "" {
		return nil
	}
	m := models.Mood(value)
	return &m
}

func (s *JournalServer) handleLogWellness(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params LogWellnessParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	date, _ := s.defaultDateTime(params.Date, "")
	entry := &models.WellnessSample{
		Date:      date,
		Overall:   optionalMood(params.Overall),
		Morning:   optionalMood(params.Morning),
		Afternoon: optionalMood(params.Afternoon),
		Evening:   optionalMood(params.Evening),
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveWellness(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save wellness entry: %w", err)
	}
	return s.createJSONResponse(entry)
}

func (s *JournalServer) handleAddAllergy(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AddAllergyParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}

	allergy := &models.KnownAllergy{
		Name:     strings.TrimSpace(params.Name),
		Severity: models.Severity(params.Severity),
		Symptoms: params.Symptoms,
	}
	if err := allergy.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.SaveAllergy(ctx, allergy); err != nil {
		return nil, fmt.Errorf("failed to save allergy: %w", err)
	}
	return s.createJSONResponse(allergy)
}

func (s *JournalServer) handleListAllergies(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	allergies, err := s.storage.ListAllergies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve allergies: %w", err)
	}
	return s.createJSONResponse(allergies)
}

func (s *JournalServer) handleDeleteEntry(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params DeleteEntryParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if params.ID == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidParams)
	}

	if err := s.storage.Delete(ctx, storage.Category(params.Category), params.ID); err != nil {
		return nil, err
	}
	return s.createJSONResponse(map[string]interface{}{"deleted": true, "category": params.Category, "id": params.ID})
}

func (s *JournalServer) handleGetEntries(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetEntriesParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if err := validateRange(params.StartDate, params.EndDate); err != nil {
		return nil, err
	}

	var (
		entries interface{}
		err     error
	)
	switch category := storage.Category(params.Category); category {
	case storage.CategoryFood:
		entries, err = s.storage.ListFood(ctx, params.StartDate, params.EndDate)
	case storage.CategorySymptom:
		entries, err = s.storage.ListSymptoms(ctx, params.StartDate, params.EndDate)
	case storage.CategoryAllergy:
		entries, err = s.storage.ListAllergies(ctx)
	default:
		var journal models.Journal
		journal, err = s.storage.Snapshot(ctx, params.StartDate, params.EndDate)
		if err == nil {
			entries, err = journalCategory(journal, category)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}
	return s.createJSONResponse(entries)
}

// journalCategory picks one category out of a snapshot; an empty category
// selects the whole journal.
func journalCategory(j models.Journal, category storage.Category) (interface{}, error) {
	switch category {
	case "":
		return j, nil
	case storage.CategoryWellness:
		return j.Wellness, nil
	case storage.CategoryWater:
		return j.Water, nil
	case storage.CategorySleep:
		return j.Sleep, nil
	case storage.CategoryExercise:
		return j.Exercise, nil
	case storage.CategoryMedication:
		return j.Medications, nil
	}
	return nil, fmt.Errorf("%w: %q", storage.ErrUnknownCategory, category)
}

func validateRange(start, end string) error {
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if err := models.ValidateDate(d); err != nil {
			return err
		}
	}
	return nil
}

// resolveRange turns analysis params into a concrete date range. An explicit
// start date wins; otherwise days (or the configured default) counts back
// from today, with 0 meaning all time.
func (s *JournalServer) resolveRange(p AnalysisParams) (string, string, error) {
	if err := validateRange(p.StartDate, p.EndDate); err != nil {
		return "", "", err
	}
	if p.StartDate != "" {
		return p.StartDate, p.EndDate, nil
	}

	days := s.config.AnalysisDays
	if p.Days != nil {
		days = *p.Days
	}
	if days < 0 {
		return "", "", fmt.Errorf("%w: days must not be negative", ErrInvalidParams)
	}
	return analysis.RangeStart(s.now(), days), p.EndDate, nil
}

func (s *JournalServer) options(p AnalysisParams) analysis.Options {
	opts := analysis.Options{
		WindowHours:  p.WindowHours,
		LookbackDays: p.LookbackDays,
		Now:          s.now(),
	}
	if opts.WindowHours <= 0 {
		opts.WindowHours = s.config.WindowHours
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = s.config.LookbackDays
	}
	return opts
}

// loadJournal parses analysis params from req and loads the matching snapshot.
func (s *JournalServer) loadJournal(ctx context.Context, req *protocol.CallToolRequest, target *AnalysisParams) (models.Journal, error) {
	if err := extractParams(req, target); err != nil {
		return models.Journal{}, err
	}
	start, end, err := s.resolveRange(*target)
	if err != nil {
		return models.Journal{}, err
	}

	journal, err := s.storage.Snapshot(ctx, start, end)
	if err != nil {
		return models.Journal{}, fmt.Errorf("failed to load journal: %w", err)
	}
	return journal, nil
}

func (s *JournalServer) handleAnalyzeCorrelations(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalysisParams
	journal, err := s.loadJournal(ctx, req, &params)
	if err != nil {
		return nil, err
	}
	opts := s.options(params)
	return s.createJSONResponse(analysis.BuildEnhancedCorrelations(journal, opts.WindowHours))
}

func (s *JournalServer) handleGetPositiveCorrelations(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalysisParams
	journal, err := s.loadJournal(ctx, req, &params)
	if err != nil {
		return nil, err
	}
	opts := s.options(params)
	return s.createJSONResponse(analysis.BuildPositiveCorrelations(journal, opts.WindowHours))
}

func (s *JournalServer) handleGetAllergyWarnings(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalysisParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	opts := s.options(params)

	journal, err := s.storage.Snapshot(ctx, analysis.RangeStart(opts.Now, opts.LookbackDays), "")
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	return s.createJSONResponse(analysis.DetectAllergyWarnings(journal.Food, journal.Allergies, opts.LookbackDays, opts.Now))
}

func (s *JournalServer) handleGetInsights(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalysisParams
	journal, err := s.loadJournal(ctx, req, &params)
	if err != nil {
		return nil, err
	}
	report := analysis.Analyze(journal, s.options(params))
	log.WithFields(log.Fields{
		"correlations": len(report.Correlations),
		"positive":     len(report.PositiveCorrelations),
		"warnings":     len(report.AllergyWarnings),
	}).Debug("insights computed")
	return s.createJSONResponse(report)
}

func (s *JournalServer) handleGetTimeline(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params AnalysisParams
	journal, err := s.loadJournal(ctx, req, &params)
	if err != nil {
		return nil, err
	}
	return s.createJSONResponse(analysis.BuildTimeline(journal.Food, journal.Symptoms))
}

func (s *JournalServer) handlePredictMeal(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params PredictMealParams
	if err := extractParams(req, &params); err != nil {
		return nil, err
	}
	if len(params.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: at least one ingredient is required", ErrInvalidParams)
	}

	start, end, err := s.resolveRange(params.AnalysisParams)
	if err != nil {
		return nil, err
	}
	journal, err := s.storage.Snapshot(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}

	opts := s.options(params.AnalysisParams)
	return s.createJSONResponse(analysis.Predict(journal, params.Ingredients, opts.WindowHours))
}
