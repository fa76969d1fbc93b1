package updater

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ratestash/ratestash/internal/entities"
	"github.com/ratestash/ratestash/internal/updater/schedule"
)

type fakeStorage struct {
	doc     *entities.RateStore
	loadErr error
	saves   int
}

func (f *fakeStorage) Load() (*entities.RateStore, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.doc == nil {
		f.doc = &entities.RateStore{}
	}
	return f.doc, nil
}

func (f *fakeStorage) Save(st *entities.RateStore) error {
	f.doc = st
	f.saves++
	return nil
}

type fakeClient struct {
	payload entities.Payload
	err     error
	calls   int
	keys    []string
}

func (f *fakeClient) Fetch(_ context.Context, apiKey string) (entities.Payload, error) {
	f.calls++
	f.keys = append(f.keys, apiKey)
	return f.payload, f.err
}

type fakeNotifier struct {
	published []string
	err       error
}

func (f *fakeNotifier) PublishUpdated(_ context.Context, pipeline string) error {
	f.published = append(f.published, pipeline)
	return f.err
}

// eveningOfJan1 resolves to date 2024-01-01 slot 17_01 in IST.
var eveningOfJan1 = time.Date(2024, 1, 1, 18, 0, 0, 0, time.FixedZone("IST", 5*3600+30*60))

func newMetalsUpdater(st *fakeStorage, cl *fakeClient, n *fakeNotifier) *Updater {
	var notifier Notifier
	if n != nil {
		notifier = n
	}
	u := New(Params{
		Pipeline:    "metals",
		Storage:     st,
		Client:      cl,
		Notifier:    notifier,
		Schedule:    schedule.Metals(),
		Keys:        Credentials{Primary: "key-a", Alternate: "key-b"},
		UseFallback: true,
	})
	u.now = func() time.Time { return eveningOfJan1 }
	return u
}

func TestRun_FirstRunInitializesStore(t *testing.T) {
	st := &fakeStorage{}
	cl := &fakeClient{payload: entities.Payload(`{"gold":100}`)}
	n := &fakeNotifier{}

	require.NoError(t, newMetalsUpdater(st, cl, n).Run(context.Background()))

	require.Equal(t, 1, cl.calls)
	require.Equal(t, []string{"key-a"}, cl.keys)
	require.Equal(t, 1, st.saves)
	require.Equal(t, "2024-01-01", st.doc.Today.Date)
	require.JSONEq(t, `{"gold":100}`, string(st.doc.Today.Slot("17_01")))
	require.Nil(t, st.doc.Today.Slot("10_01"))
	require.Empty(t, st.doc.Yesterday.Date)
	require.Equal(t, []string{"metals"}, n.published)
}

func TestRun_SecondRunSkipsFetchAndSave(t *testing.T) {
	st := &fakeStorage{}
	cl := &fakeClient{payload: entities.Payload(`{"gold":100}`)}

	u := newMetalsUpdater(st, cl, nil)
	require.NoError(t, u.Run(context.Background()))
	require.NoError(t, u.Run(context.Background()))

	require.Equal(t, 1, cl.calls)
	require.Equal(t, 1, st.saves)
}

func TestRun_FetchFailureFallsBackToEarlierSlot(t *testing.T) {
	st := &fakeStorage{doc: &entities.RateStore{
		Today: entities.DaySnapshot{
			Date: "2024-01-01",
			Rates: map[string]entities.Payload{
				"10_01": entities.Payload(`{"gold":100}`),
				"17_01": nil,
			},
		},
	}}
	cl := &fakeClient{err: errors.New("bad status: 503 Service Unavailable")}

	require.NoError(t, newMetalsUpdater(st, cl, nil).Run(context.Background()))

	require.Equal(t, 1, st.saves)
	require.JSONEq(t, `{"gold":100}`, string(st.doc.Today.Slot("17_01")))
	require.JSONEq(t, `{"gold":100}`, string(st.doc.Today.Slot("10_01")))
}

func TestRun_MorningFailureBorrowsYesterdayEvening(t *testing.T) {
	st := &fakeStorage{doc: &entities.RateStore{
		Today: entities.DaySnapshot{
			Date: "2023-12-31",
			Rates: map[string]entities.Payload{
				"10_01": entities.Payload(`{"gold":97}`),
				"17_01": entities.Payload(`{"gold":98}`),
			},
		},
	}}
	cl := &fakeClient{err: errors.New("network down")}

	u := newMetalsUpdater(st, cl, nil)
	// Morning run of the next day.
	u.now = func() time.Time {
		return time.Date(2024, 1, 1, 11, 0, 0, 0, time.FixedZone("IST", 5*3600+30*60))
	}
	require.NoError(t, u.Run(context.Background()))

	require.Equal(t, "2023-12-31", st.doc.Yesterday.Date)
	require.JSONEq(t, `{"gold":98}`, string(st.doc.Today.Slot("10_01")))
	require.Nil(t, st.doc.Today.Slot("17_01"))
}

func TestRun_FallbackWithNoSourceLeavesSlotNull(t *testing.T) {
	st := &fakeStorage{}
	cl := &fakeClient{err: errors.New("network down")}

	require.NoError(t, newMetalsUpdater(st, cl, nil).Run(context.Background()))

	require.Equal(t, 1, st.saves)
	require.Nil(t, st.doc.Today.Slot("17_01"))
}

func TestRun_SlotOverrideIsTranslated(t *testing.T) {
	st := &fakeStorage{}
	cl := &fakeClient{payload: entities.Payload(`{"gold":100}`)}

	u := newMetalsUpdater(st, cl, nil)
	u.override = "10_30"
	require.NoError(t, u.Run(context.Background()))

	require.JSONEq(t, `{"gold":100}`, string(st.doc.Today.Slot("10_01")))
	require.Nil(t, st.doc.Today.Slot("17_01"))
}

func TestRun_UnknownOverrideIsFatal(t *testing.T) {
	st := &fakeStorage{}
	cl := &fakeClient{}

	u := newMetalsUpdater(st, cl, nil)
	u.override = "banana"

	err := u.Run(context.Background())
	require.ErrorIs(t, err, entities.ErrUnknownSlot)
	require.Zero(t, cl.calls)
	require.Zero(t, st.saves)
}

func TestRun_CorruptStoreAborts(t *testing.T) {
	st := &fakeStorage{loadErr: entities.ErrStoreCorrupt}
	cl := &fakeClient{}

	err := newMetalsUpdater(st, cl, nil).Run(context.Background())
	require.ErrorIs(t, err, entities.ErrStoreCorrupt)
	require.Zero(t, cl.calls)
	require.Zero(t, st.saves)
}

func TestRun_NotifierFailureIsNotFatal(t *testing.T) {
	st := &fakeStorage{}
	cl := &fakeClient{payload: entities.Payload(`{"gold":100}`)}
	n := &fakeNotifier{err: errors.New("redis gone")}

	require.NoError(t, newMetalsUpdater(st, cl, n).Run(context.Background()))
	require.Equal(t, 1, st.saves)
}

func newCurrencyUpdater(st *fakeStorage, cl *fakeClient) *Updater {
	u := New(Params{
		Pipeline:    "currency",
		Storage:     st,
		Client:      cl,
		Schedule:    schedule.WholeDay(),
		Keys:        Credentials{Primary: "key-a"},
		UseFallback: false,
	})
	u.now = func() time.Time { return eveningOfJan1 }
	return u
}

func TestRun_CurrencyFailureLeavesDataNull(t *testing.T) {
	st := &fakeStorage{doc: &entities.RateStore{
		Today: entities.DaySnapshot{
			Date:  "2023-12-31",
			Rates: map[string]entities.Payload{entities.SlotWholeDay: entities.Payload(`{"metals":{"gold":99}}`)},
		},
	}}
	cl := &fakeClient{err: errors.Wrap(entities.ErrInvalidPayload, "metalsdev.LatestRates")}

	require.NoError(t, newCurrencyUpdater(st, cl).Run(context.Background()))

	// No fallback for the whole-day pipeline: today stays null, the old
	// value survives in yesterday.
	require.Equal(t, "2024-01-01", st.doc.Today.Date)
	require.Nil(t, st.doc.Today.Slot(entities.SlotWholeDay))
	require.JSONEq(t, `{"metals":{"gold":99}}`, string(st.doc.Yesterday.Slot(entities.SlotWholeDay)))
}

func TestRun_CurrencyInvalidPayloadDoesNotClearSameDayData(t *testing.T) {
	st := &fakeStorage{doc: &entities.RateStore{
		Today: entities.DaySnapshot{
			Date:  "2024-01-01",
			Rates: map[string]entities.Payload{entities.SlotWholeDay: entities.Payload(`{"metals":{"gold":99}}`)},
		},
	}}
	cl := &fakeClient{err: errors.Wrap(entities.ErrInvalidPayload, "metalsdev.LatestRates")}

	require.NoError(t, newCurrencyUpdater(st, cl).Run(context.Background()))

	// The gate skips before the fetch, so the bad response never happens
	// and the stored value is untouched.
	require.Zero(t, cl.calls)
	require.JSONEq(t, `{"metals":{"gold":99}}`, string(st.doc.Today.Slot(entities.SlotWholeDay)))
}
