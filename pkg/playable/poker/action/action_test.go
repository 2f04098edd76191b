package action

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, Fold, Classify(0, 10, 100))
	assert.Equal(t, Call, Classify(10, 10, 100))
	assert.Equal(t, Raise, Classify(20, 10, 100))
	assert.Equal(t, AllIn, Classify(100, 10, 100))
	assert.Equal(t, AllIn, Classify(5, 10, 5), "short all-in")
}

func TestAction_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Raise)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"id":"raise","name":"Raise"}`, string(b))
}

func TestAction_LogMessage(t *testing.T) {
	assert.Equal(t, "folded", Fold.LogMessage(0))
	assert.Equal(t, "checked", Check.LogMessage(0))
	assert.Equal(t, "called ${10}", Call.LogMessage(10))
	assert.Equal(t, "raised ${30}", Raise.LogMessage(30))
	assert.Equal(t, "is all-in for ${75}", AllIn.LogMessage(75))
}
