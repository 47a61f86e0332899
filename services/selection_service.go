package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hotel-pricing/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionRequired     = errors.New("session_required")
	ErrSelectionNotFound   = errors.New("selection_item_not_found")
	ErrDuplicateInstance   = errors.New("duplicate_instance_id")
	ErrInvalidGuests       = errors.New("invalid_guest_count")
	ErrRoomTypeUnavailable = errors.New("room_type_unavailable")
)

const maxSessionKeyLen = 128

// Selection is the typed view of a session's booking selection. JSON names
// follow the keys the front-end used to keep in local storage.
type Selection struct {
	SessionKey    string                       `json:"sessionKey"`
	Rooms         []models.RoomSelection       `json:"selectedRooms"`
	Services      []models.ServiceSelection    `json:"selectedServices"`
	OriginalRooms []models.RoomSelection       `json:"originalRooms,omitempty"`
	Adults        int                          `json:"selectedAdults"`
	Children      int                          `json:"selectedChildren"`
	Dates         *models.DateRange            `json:"dateRange,omitempty"`
	CurrencyCode  string                       `json:"currencyCode"`
	GuestRooms    map[string]models.GuestCount `json:"guestRoomSelection"`
	Version       uint                         `json:"version"`
	UpdatedAt     time.Time                    `json:"updatedAt"`
}

func (s Selection) Guests() models.GuestCount {
	return models.GuestCount{Adults: s.Adults, Children: s.Children}
}

func defaultSelection(session string) Selection {
	return Selection{
		SessionKey:   session,
		Rooms:        []models.RoomSelection{},
		Services:     []models.ServiceSelection{},
		Adults:       1,
		Children:     0,
		CurrencyCode: DefaultCurrency,
		GuestRooms:   map[string]models.GuestCount{},
	}
}

// SelectionService is the application-state store for booking selections.
// Every mutation runs in a row-locked transaction, bumps the version and
// is published to the session's subscribers after commit.
type SelectionService struct {
	DB     *gorm.DB
	hub    *SelectionHub
	logger *zap.Logger
	newID  func() string
}

func NewSelectionService(db *gorm.DB, hub *SelectionHub, logger *zap.Logger) *SelectionService {
	if hub == nil {
		hub = NewSelectionHub()
	}
	return &SelectionService{DB: db, hub: hub, logger: logger, newID: uuid.NewString}
}

func normalizeSessionKey(session string) (string, error) {
	session = strings.TrimSpace(session)
	if session == "" || len(session) > maxSessionKeyLen {
		return "", ErrSessionRequired
	}
	return session, nil
}

func decodeJSON(raw datatypes.JSON, dst interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func decodeSelection(row models.SelectionState) (Selection, error) {
	sel := defaultSelection(row.SessionKey)
	if err := decodeJSON(row.Rooms, &sel.Rooms); err != nil {
		return sel, fmt.Errorf("decode rooms: %w", err)
	}
	if err := decodeJSON(row.Services, &sel.Services); err != nil {
		return sel, fmt.Errorf("decode services: %w", err)
	}
	if err := decodeJSON(row.OriginalRooms, &sel.OriginalRooms); err != nil {
		return sel, fmt.Errorf("decode original rooms: %w", err)
	}
	if err := decodeJSON(row.GuestRooms, &sel.GuestRooms); err != nil {
		return sel, fmt.Errorf("decode guest rooms: %w", err)
	}
	if sel.Rooms == nil {
		sel.Rooms = []models.RoomSelection{}
	}
	if sel.Services == nil {
		sel.Services = []models.ServiceSelection{}
	}
	if sel.GuestRooms == nil {
		sel.GuestRooms = map[string]models.GuestCount{}
	}

	sel.Adults = row.Adults
	sel.Children = row.Children
	if row.StartDate != nil && row.EndDate != nil {
		sel.Dates = &models.DateRange{StartDate: *row.StartDate, EndDate: *row.EndDate}
	}
	if row.CurrencyCode != "" {
		sel.CurrencyCode = row.CurrencyCode
	}
	sel.Version = row.Version
	sel.UpdatedAt = row.UpdatedAt
	return sel, nil
}

func encodeSelection(sel Selection, row *models.SelectionState) error {
	fields := []struct {
		dst *datatypes.JSON
		src interface{}
	}{
		{&row.Rooms, sel.Rooms},
		{&row.Services, sel.Services},
		{&row.OriginalRooms, sel.OriginalRooms},
		{&row.GuestRooms, sel.GuestRooms},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.src)
		if err != nil {
			return fmt.Errorf("encode selection: %w", err)
		}
		*f.dst = datatypes.JSON(data)
	}

	row.Adults = sel.Adults
	row.Children = sel.Children
	row.StartDate, row.EndDate = nil, nil
	if sel.Dates != nil {
		start, end := sel.Dates.StartDate, sel.Dates.EndDate
		row.StartDate, row.EndDate = &start, &end
	}
	row.CurrencyCode = sel.CurrencyCode
	row.Version = sel.Version
	return nil
}

// Get returns the stored selection, or the defaults for an unknown session.
func (s *SelectionService) Get(ctx context.Context, session string) (Selection, error) {
	session, err := normalizeSessionKey(session)
	if err != nil {
		return Selection{}, err
	}

	var row models.SelectionState
	result := s.DB.WithContext(ctx).Where("session_key = ?", session).Limit(1).Find(&row)
	if result.Error != nil {
		return Selection{}, fmt.Errorf("failed to load selection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return defaultSelection(session), nil
	}
	return decodeSelection(row)
}

func (s *SelectionService) mutate(ctx context.Context, session string, fn func(*Selection) error) (Selection, error) {
	session, err := normalizeSessionKey(session)
	if err != nil {
		return Selection{}, err
	}

	var updated Selection
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.SelectionState
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_key = ?", session).
			Limit(1).
			Find(&row)
		if result.Error != nil {
			return fmt.Errorf("failed to load selection: %w", result.Error)
		}

		isNew := result.RowsAffected == 0
		sel := defaultSelection(session)
		if isNew {
			row = models.SelectionState{SessionKey: session}
		} else {
			decoded, err := decodeSelection(row)
			if err != nil {
				return err
			}
			sel = decoded
		}

		if err := fn(&sel); err != nil {
			return err
		}
		sel.Version++

		if err := encodeSelection(sel, &row); err != nil {
			return err
		}
		if isNew {
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create selection: %w", err)
			}
		} else if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to save selection: %w", err)
		}

		sel.UpdatedAt = row.UpdatedAt
		updated = sel
		return nil
	})
	if txErr != nil {
		return Selection{}, txErr
	}

	s.hub.Publish(updated)
	s.logger.Debug("selection updated",
		zap.String("session", session),
		zap.Uint("version", updated.Version),
		zap.Int("rooms", len(updated.Rooms)),
		zap.Int("services", len(updated.Services)))
	return updated, nil
}

// AddRoom appends a room, generating its instance id when missing. A room
// without dates inherits the selection's shared range.
func (s *SelectionService) AddRoom(ctx context.Context, session string, room models.RoomSelection) (Selection, error) {
	return s.mutate(ctx, session, func(sel *Selection) error {
		if room.InstanceID == "" {
			room.InstanceID = s.newID()
		}
		for _, r := range sel.Rooms {
			if r.InstanceID == room.InstanceID {
				return ErrDuplicateInstance
			}
		}
		if sel.Dates != nil && (room.StartDate == nil || room.EndDate == nil) {
			start, end := sel.Dates.StartDate, sel.Dates.EndDate
			room.StartDate, room.EndDate = &start, &end
		}
		if room.StartDate != nil && room.EndDate != nil {
			ApplyNights(&room, Nights(*room.StartDate, *room.EndDate))
		}
		sel.Rooms = append(sel.Rooms, room)
		return nil
	})
}

func (s *SelectionService) RemoveRoom(ctx context.Context, session, instanceID string) (Selection, error) {
	return s.mutate(ctx, session, func(sel *Selection) error {
		for i, r := range sel.Rooms {
			if r.InstanceID == instanceID {
				sel.Rooms = append(sel.Rooms[:i], sel.Rooms[i+1:]...)
				delete(sel.GuestRooms, instanceID)
				return nil
			}
		}
		return ErrSelectionNotFound
	})
}

func (s *SelectionService) AddService(ctx context.Context, session string, svc models.ServiceSelection) (Selection, error) {
	return s.mutate(ctx, session, func(sel *Selection) error {
		if svc.InstanceID == "" {
			svc.InstanceID = s.newID()
		}
		for _, existing := range sel.Services {
			if existing.InstanceID == svc.InstanceID {
				return ErrDuplicateInstance
			}
		}
		sel.Services = append(sel.Services, svc)
		return nil
	})
}

func (s *SelectionService) RemoveService(ctx context.Context, session, instanceID string) (Selection, error) {
	return s.mutate(ctx, session, func(sel *Selection) error {
		for i, svc := range sel.Services {
			if svc.InstanceID == instanceID {
				sel.Services = append(sel.Services[:i], sel.Services[i+1:]...)
				return nil
			}
		}
		return ErrSelectionNotFound
	})
}

// SetGuests sets the requested party size; at least one adult is required.
func (s *SelectionService) SetGuests(ctx context.Context, session string, guests models.GuestCount) (Selection, error) {
	if guests.Adults < 1 || guests.Children < 0 {
		return Selection{}, ErrInvalidGuests
	}
	return s.mutate(ctx, session, func(sel *Selection) error {
		sel.Adults = guests.Adults
		sel.Children = guests.Children
		return nil
	})
}

// SetRoomGuests records how many guests are assigned to one selected room.
func (s *SelectionService) SetRoomGuests(ctx context.Context, session, instanceID string, guests models.GuestCount) (Selection, error) {
	if guests.Adults < 0 || guests.Children < 0 {
		return Selection{}, ErrInvalidGuests
	}
	return s.mutate(ctx, session, func(sel *Selection) error {
		for _, r := range sel.Rooms {
			if r.InstanceID == instanceID {
				sel.GuestRooms[instanceID] = guests
				return nil
			}
		}
		return ErrSelectionNotFound
	})
}

// SetDates sets the shared stay range and moves every selected room onto
// it. Per-night rooms are repriced for the new nights.
func (s *SelectionService) SetDates(ctx context.Context, session string, dates models.DateRange) (Selection, error) {
	if !dates.EndDate.After(dates.StartDate) {
		return Selection{}, ErrInvalidDateRange
	}
	return s.mutate(ctx, session, func(sel *Selection) error {
		sel.Dates = &dates
		nights := Nights(dates.StartDate, dates.EndDate)
		for i := range sel.Rooms {
			start, end := dates.StartDate, dates.EndDate
			sel.Rooms[i].StartDate, sel.Rooms[i].EndDate = &start, &end
			ApplyNights(&sel.Rooms[i], nights)
		}
		return nil
	})
}

func (s *SelectionService) SetCurrency(ctx context.Context, session, code string) (Selection, error) {
	code = NormalizeCurrencyCode(code)
	if !ValidCurrencyCode(code) {
		return Selection{}, ErrInvalidCurrency
	}
	return s.mutate(ctx, session, func(sel *Selection) error {
		sel.CurrencyCode = code
		return nil
	})
}

// SetOriginalRooms stores the rooms of the booking being modified.
func (s *SelectionService) SetOriginalRooms(ctx context.Context, session string, rooms []models.RoomSelection) (Selection, error) {
	return s.mutate(ctx, session, func(sel *Selection) error {
		sel.OriginalRooms = rooms
		return nil
	})
}

// Clear puts the session back to the defaults. The version keeps counting
// so subscribers see the reset as the newest state.
func (s *SelectionService) Clear(ctx context.Context, session string) error {
	_, err := s.mutate(ctx, session, func(sel *Selection) error {
		version := sel.Version
		*sel = defaultSelection(sel.SessionKey)
		sel.Version = version
		return nil
	})
	return err
}

// Subscribe streams every committed change of the session's selection.
func (s *SelectionService) Subscribe(session string) (<-chan Selection, func(), error) {
	session, err := normalizeSessionKey(session)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.Subscribe(session)
	return ch, cancel, nil
}
