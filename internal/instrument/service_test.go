package instrument_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/partylink/internal/instrument"
)

func TestService_Create(t *testing.T) {
	due := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    instrument.CreateParams
		setupMock func(m *instrument.MockRepository)
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Check",
			params: instrument.CreateParams{
				Kind:         instrument.KindCheck,
				Amount:       150000,
				DueDate:      due,
				Status:       instrument.StatusPending,
				RawOwnerName: "Ahmed Hassan",
			},
			setupMock: func(m *instrument.MockRepository) {
				m.EXPECT().
					CreateInstrument(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inst *instrument.Instrument) error {
						inst.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name: "InstallmentWithCheckStatus",
			params: instrument.CreateParams{
				Kind:   instrument.KindInstallment,
				Status: instrument.StatusCashed,
			},
			wantErr: true,
		},
		{
			name: "NegativeAmount",
			params: instrument.CreateParams{
				Kind:   instrument.KindCheck,
				Status: instrument.StatusPending,
				Amount: -1,
			},
			wantErr: true,
		},
		{
			name:    "UnknownKind",
			params:  instrument.CreateParams{Kind: "bond", Status: instrument.StatusPending},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := instrument.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := instrument.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr {
				assert.ErrorIs(t, err, instrument.ErrInvalidInput)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, tt.params.RawOwnerName, got.RawOwnerName)
		})
	}
}

func TestService_CreateBatch_StopsAtFirstFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := instrument.NewMockRepository(ctrl)

	repo.EXPECT().CreateInstrument(gomock.Any(), gomock.Any()).Return(nil)
	repo.EXPECT().CreateInstrument(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

	params := []instrument.CreateParams{
		{Kind: instrument.KindCheck, Status: instrument.StatusPending},
		{Kind: instrument.KindCheck, Status: instrument.StatusPending},
		{Kind: instrument.KindCheck, Status: instrument.StatusPending},
	}

	got, err := instrument.NewService(repo).CreateBatch(context.Background(), params)
	assert.Error(t, err)
	assert.Len(t, got, 1)
}

func TestService_UpdateStatus(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		status    instrument.Status
		setupMock func(m *instrument.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Legal",
			status: instrument.StatusOverdue,
			setupMock: func(m *instrument.MockRepository) {
				m.EXPECT().GetInstrument(gomock.Any(), id).Return(&instrument.Instrument{ID: id, Kind: instrument.KindInstallment}, nil)
				m.EXPECT().UpdateStatus(gomock.Any(), id, instrument.StatusOverdue).Return(nil)
			},
		},
		{
			name:   "IllegalForKind",
			status: instrument.StatusBounced,
			setupMock: func(m *instrument.MockRepository) {
				m.EXPECT().GetInstrument(gomock.Any(), id).Return(&instrument.Instrument{ID: id, Kind: instrument.KindInstallment}, nil)
			},
			wantErr: instrument.ErrInvalidInput,
		},
		{
			name:   "NotFound",
			status: instrument.StatusCashed,
			setupMock: func(m *instrument.MockRepository) {
				m.EXPECT().GetInstrument(gomock.Any(), id).Return(nil, instrument.ErrNotFound)
			},
			wantErr: instrument.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := instrument.NewMockRepository(ctrl)
			tt.setupMock(repo)

			err := instrument.NewService(repo).UpdateStatus(context.Background(), id, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
