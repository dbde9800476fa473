package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"aquasmart/entities"
	"aquasmart/irrigation"
	"aquasmart/status"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrFieldNotFound   = errors.New("field not found")
	ErrAlreadyPlanted  = errors.New("this plant is already planted in the field")
	ErrPasswordNeeded  = errors.New("password confirmation is required")
	ErrFieldIncomplete = errors.New("name and location are required")
)

// DashboardService composes backend data into what the pages show.
type DashboardService struct {
	backend   Backend
	economics *Economics
	plans     *irrigation.Catalog
	log       *zap.SugaredLogger
}

func NewDashboardService(backend Backend, economics *Economics, plans *irrigation.Catalog, log *zap.SugaredLogger) *DashboardService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if plans == nil {
		plans = irrigation.NewStaticCatalog(nil)
	}
	return &DashboardService{backend: backend, economics: economics, plans: plans, log: log}
}

// FieldView is a field with everything derived from its latest reading.
// Status is computed on every call; views are never cached with it.
type FieldView struct {
	entities.Field
	Latest        *entities.SensorLog `json:"latest,omitempty"`
	Status        status.Status       `json:"status"`
	StatusLabel   string              `json:"status_label"`
	MoistureLevel status.Level        `json:"moisture_level,omitempty"`
	Estimate
}

func (s *DashboardService) view(f entities.Field) FieldView {
	st := status.OfField(f)
	v := FieldView{
		Field:       f,
		Latest:      f.LatestLog(),
		Status:      st,
		StatusLabel: st.Label(),
		Estimate:    s.economics.Estimate(f),
	}
	if v.Latest != nil {
		v.MoistureLevel = status.MoistureLevel(v.Latest.Moisture)
	}
	return v
}

// FieldViews fetches the user's fields. Errors are returned; field data is
// primary.
func (s *DashboardService) FieldViews(ctx context.Context, userID int) ([]FieldView, error) {
	fields, err := s.backend.GetFields(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		views = append(views, s.view(f))
	}
	return views, nil
}

func (s *DashboardService) FieldView(ctx context.Context, userID, fieldID int) (*FieldView, error) {
	fields, err := s.backend.GetFields(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		if f.ID == fieldID {
			v := s.view(f)
			return &v, nil
		}
	}
	return nil, fmt.Errorf("field %d: %w", fieldID, ErrFieldNotFound)
}

// FieldsAndPlants is the field detail page payload.
type FieldsAndPlants struct {
	Fields     []FieldView          `json:"fields"`
	PlantTypes []entities.PlantType `json:"plant_types"`
}

// FieldsWithPlantTypes fetches fields and plant types concurrently. Both are
// required; the first error cancels the other request.
func (s *DashboardService) FieldsWithPlantTypes(ctx context.Context, userID int) (*FieldsAndPlants, error) {
	g, gctx := errgroup.WithContext(ctx)

	var views []FieldView
	var plants []entities.PlantType
	g.Go(func() error {
		var err error
		views, err = s.FieldViews(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		plants, err = s.backend.GetPlantTypes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &FieldsAndPlants{Fields: views, PlantTypes: plants}, nil
}

func (s *DashboardService) PlantTypes(ctx context.Context) ([]entities.PlantType, error) {
	return s.backend.GetPlantTypes(ctx)
}

func (s *DashboardService) CreateField(ctx context.Context, userID int, req entities.FieldCreate) (*FieldView, error) {
	if req.Name == "" || req.Location == "" {
		return nil, ErrFieldIncomplete
	}
	created, err := s.backend.CreateField(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	v := s.view(*created)
	return &v, nil
}

// ChangePlantType replaces a field's crop. The user's password is checked
// against the backend first, since the change discards the field's
// threshold history. The field is re-read afterwards.
func (s *DashboardService) ChangePlantType(ctx context.Context, user entities.User, fieldID, plantTypeID int, password string) (*FieldView, error) {
	if password == "" {
		return nil, ErrPasswordNeeded
	}
	current, err := s.FieldView(ctx, user.ID, fieldID)
	if err != nil {
		return nil, err
	}
	if current.PlantType != nil && current.PlantType.ID == plantTypeID ||
		current.PlantTypeID != nil && *current.PlantTypeID == plantTypeID {
		return nil, ErrAlreadyPlanted
	}

	if _, err := s.backend.LoginUser(ctx, user.Email, password); err != nil {
		return nil, err
	}
	if _, err := s.backend.UpdateFieldPlantType(ctx, user.ID, fieldID, plantTypeID); err != nil {
		return nil, err
	}
	s.log.Infof("field %d of user %d now grows plant type %d", fieldID, user.ID, plantTypeID)

	return s.FieldView(ctx, user.ID, fieldID)
}

// Attention lists fields in critical or warning state, most severe first.
func Attention(views []FieldView) []FieldView {
	out := make([]FieldView, 0)
	for _, v := range views {
		if v.Status.NeedsAttention() {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Status.Severity() > out[j].Status.Severity()
	})
	return out
}
