package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obratrack/obratrack/internal/model"
)

var testBlob = []byte("data:image/png;base64,attestation")

func TestSignHappyPath(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1", obligatory: true}, itemSpec{id: "i-2"})
	require.NoError(t, ApplyItemMutation(&c, "i-1", SetCompleted{Completed: true}, testActor, testNow))
	require.NoError(t, ApplyItemMutation(&c, "i-2", SetStatus{Status: model.ItemStatusNotApplicable}, testActor, testNow))

	err := Sign(&c, testActor, testBlob, testNow)
	require.NoError(t, err)

	assert.Equal(t, model.ChecklistStatusCompleted, c.Status)
	require.NotNil(t, c.Signature)
	assert.Equal(t, testActor.Name, c.Signature.SignerName)
	assert.Equal(t, testActor.Email, c.Signature.SignerEmail)
	assert.Equal(t, testNow, c.Signature.SignedAt)
	assert.Equal(t, testBlob, c.Signature.Data)
	require.NotNil(t, c.CompletedAt)
	assert.Equal(t, testNow, *c.CompletedAt)
}

func TestSignListsEveryUnresolvedObligatoryItem(t *testing.T) {
	c := buildChecklist("cl-1",
		itemSpec{id: "i-1", obligatory: true},
		itemSpec{id: "i-2", obligatory: true},
		itemSpec{id: "i-3"},
	)
	require.NoError(t, ApplyItemMutation(&c, "i-3", SetCompleted{Completed: true}, testActor, testNow))

	err := Sign(&c, testActor, testBlob, testNow)
	require.Error(t, err)

	var notReady *NotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, []string{"i-1", "i-2"}, notReady.UnresolvedItemIDs)
	assert.Equal(t, 33, notReady.Percentage)

	// Failed sign leaves the checklist untouched.
	assert.Equal(t, model.ChecklistStatusInProgress, c.Status)
	assert.Nil(t, c.Signature)
	assert.Nil(t, c.CompletedAt)
}

func TestSignTwiceRefusesAndPreservesFirstSignature(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1"})
	require.NoError(t, ApplyItemMutation(&c, "i-1", SetCompleted{Completed: true}, testActor, testNow))
	require.NoError(t, Sign(&c, testActor, testBlob, testNow))

	later := testNow.Add(2 * time.Hour)
	other := model.Actor{Name: "Bruno Lima", Email: "bruno@construtora.example"}
	err := Sign(&c, other, []byte("second"), later)
	require.Error(t, err)
	assert.True(t, IsAlreadySigned(err))

	var signed *AlreadySignedError
	require.ErrorAs(t, err, &signed)
	assert.Equal(t, testNow, signed.SignedAt)

	assert.Equal(t, testActor.Name, c.Signature.SignerName)
	assert.Equal(t, testNow, c.Signature.SignedAt)
	assert.Equal(t, testBlob, c.Signature.Data)
}

func TestSignRejectsEmptyBlob(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1"})
	require.NoError(t, ApplyItemMutation(&c, "i-1", SetCompleted{Completed: true}, testActor, testNow))

	err := Sign(&c, testActor, nil, testNow)
	require.Error(t, err)
	assert.Nil(t, c.Signature)
	assert.Equal(t, model.ChecklistStatusInProgress, c.Status)
}

func TestSignRejectsDraft(t *testing.T) {
	c := buildChecklist("cl-1", itemSpec{id: "i-1"})
	c.Status = model.ChecklistStatusDraft
	c.StartedAt = nil

	err := Sign(&c, testActor, testBlob, testNow)
	require.Error(t, err)
	assert.True(t, IsNotReady(err))
}

// The five-item scenario: three obligatory marked done leaves the checklist
// at 60% and unsignable; resolving the remaining two as not applicable
// brings it to 100% and the signature succeeds.
func TestSignFiveItemScenario(t *testing.T) {
	c := buildChecklist("cl-1",
		itemSpec{id: "i-1", obligatory: true},
		itemSpec{id: "i-2", obligatory: true},
		itemSpec{id: "i-3", obligatory: true},
		itemSpec{id: "i-4"},
		itemSpec{id: "i-5"},
	)

	for _, id := range []string{"i-1", "i-2", "i-3"} {
		require.NoError(t, ApplyItemMutation(&c, id, SetCompleted{Completed: true}, testActor, testNow))
	}
	assert.Equal(t, 60, c.Progress.Percentage)
	assert.False(t, ReadyForSignature(c.Items))

	err := Sign(&c, testActor, testBlob, testNow)
	var notReady *NotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Empty(t, notReady.UnresolvedItemIDs, "all obligatory items are resolved; only the percentage blocks")

	for _, id := range []string{"i-4", "i-5"} {
		require.NoError(t, ApplyItemMutation(&c, id, SetStatus{Status: model.ItemStatusNotApplicable}, testActor, testNow))
	}
	assert.Equal(t, 100, c.Progress.Percentage)
	assert.True(t, ReadyForSignature(c.Items))

	require.NoError(t, Sign(&c, testActor, testBlob, testNow))
	assert.Equal(t, model.ChecklistStatusCompleted, c.Status)
}
