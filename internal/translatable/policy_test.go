package translatable

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/charlesng35/translatable/pkg/logger"
)

func TestEligibility(t *testing.T) {
	cases := []struct {
		name       string
		decl       Eligibility
		key        string
		allowed    bool
		restricted bool
	}{
		{"all allows anything", AllAttributes(), "body", true, false},
		{"single allows match", OnlyAttribute("name"), "name", true, true},
		{"single rejects other", OnlyAttribute("name"), "body", false, true},
		{"set allows member", OnlyAttributes("name", "body"), "body", true, true},
		{"set rejects non member", OnlyAttributes("name", "body"), "slug", false, true},
		{"names are trimmed", OnlyAttributes(" name "), "name", true, true},
		{"empty set fails open", OnlyAttributes(), "anything", true, false},
		{"blank names fail open", OnlyAttributes("", "  "), "anything", true, false},
		{"zero value allows anything", Eligibility{}, "slug", true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.allowed, tc.decl.Allows(tc.key))
			require.Equal(t, tc.restricted, tc.decl.Restricted())
		})
	}
}

func TestEligibilityKeys(t *testing.T) {
	require.Nil(t, AllAttributes().Keys())
	require.Equal(t, []string{"body", "name"}, OnlyAttributes("name", "body", "name").Keys())
}

func TestPolicyUndeclaredTypeAllowsEverything(t *testing.T) {
	policy := NewPolicy()
	require.True(t, policy.IsEligible("posts", "name"))
}

func TestPolicyFirstDeclarationWins(t *testing.T) {
	policy := NewPolicy()

	require.True(t, policy.Declare("posts", OnlyAttribute("name")))
	require.False(t, policy.Declare("posts", AllAttributes()))
	require.False(t, policy.Declare(" ", AllAttributes()))

	require.True(t, policy.IsEligible("posts", "name"))
	require.False(t, policy.IsEligible("posts", "body"))
}

func TestPolicyObserveUsesDeclarer(t *testing.T) {
	policy := NewPolicy()

	policy.Observe(&article{post: post{id: 1}})
	policy.Observe(&post{id: 1})
	policy.Observe(nil)

	require.True(t, policy.IsEligible("articles", "name"))
	require.False(t, policy.IsEligible("articles", "body"))
	require.True(t, policy.IsEligible("posts", "body"))
}

func TestPolicyWarnsOnMalformedDeclaration(t *testing.T) {
	core, recorded := observer.New(zap.WarnLevel)
	t.Cleanup(logger.Replace(zap.New(core)))

	policy := NewPolicy()
	policy.Declare("posts", OnlyAttributes(""))

	require.True(t, policy.IsEligible("posts", "anything"))
	entries := recorded.FilterField(zap.String("owner_type", "posts")).All()
	require.Len(t, entries, 1)
	require.Equal(t, "translatable.policy", entries[0].ContextMap()["module"])
}
