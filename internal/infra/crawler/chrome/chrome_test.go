package chrome

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobPattern(t *testing.T) {
	assert.Equal(t, "*pageList*", globPattern("pageList"))
	assert.Equal(t, "*/joblist.json*", globPattern("*/joblist.json*"))
}

func TestCompilePattern(t *testing.T) {
	re := compilePattern("pageList")
	assert.True(t, re.MatchString("https://rczp.china-railway.com.cn/api/pageList?page=1"))
	assert.False(t, re.MatchString("https://rczp.china-railway.com.cn/api/pagedynamic"))

	re = compilePattern("*/getinfo?id=*")
	assert.True(t, re.MatchString("https://example.com/x/getinfo?id=3"))
	assert.False(t, re.MatchString("https://example.com/x/getinfo"))

	re = compilePattern("a.b")
	assert.False(t, re.MatchString("axb"))
}
