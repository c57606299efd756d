package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAchievementTypeValid(t *testing.T) {
	for _, valid := range []AchievementType{
		TypeSymposium, TypeCodingContest, TypePublication, TypeConference,
		TypeProject, TypeDatabaseDesign, TypeOther,
	} {
		assert.True(t, valid.Valid(), string(valid))
	}

	assert.False(t, AchievementType("hackathon").Valid())
	assert.False(t, AchievementType("").Valid())
	assert.False(t, AchievementType("Symposium").Valid(), "types are case sensitive")
}
