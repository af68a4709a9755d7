package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStr2List(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Str2List("a,b,c", ","))
	assert.Equal(t, []string{"a", "b"}, Str2List(" a , b , a ", ","))
	assert.Equal(t, []string{"a"}, Str2List("a,,  ,", ","))
	assert.Empty(t, Str2List("", ","))
}
