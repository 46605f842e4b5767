package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func genEmail() gopter.Gen {
	return gen.AlphaString().SuchThat(func(s string) bool {
		return len(s) > 0
	}).Map(func(s string) string {
		return s + "@example.com"
	})
}

func genRole() gopter.Gen {
	return gen.OneConstOf(RoleReader, RoleWriter)
}

// 属性：ResolveContribution 为 Owner 当且仅当笔记属主等于该邮箱
func TestResolveContribution_OwnerProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("owner contribution iff note owner matches", prop.ForAll(
		func(owner, caller string, role Role) bool {
			note := &Note{
				ID:      "n1",
				Owner:   owner,
				Shares:  map[string]Role{},
				Version: InitialVersion,
			}
			// 即使共享表意外包含属主，属主关系仍然优先
			note.Shares[owner] = role

			got := ResolveContribution(note, caller)
			if owner == caller {
				return got == ContributionOwner
			}
			return got != ContributionOwner
		},
		genEmail(),
		genEmail(),
		genRole(),
	))

	properties.TestingRun(t)
}

// 属性：共享表中角色为 R 的用户，更新权限当且仅当 R 为 writer
func TestAuthorize_UpdateProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("shared user may update iff role is writer", prop.ForAll(
		func(collaborator string, role Role) bool {
			note := &Note{
				ID:      "n1",
				Owner:   "owner@example.com",
				Shares:  map[string]Role{collaborator: role},
				Version: InitialVersion,
			}
			if collaborator == note.Owner {
				return true // 属主不会作为协作者出现
			}

			allowed := Authorize(ResolveContribution(note, collaborator), OperationUpdate)
			return allowed == (role == RoleWriter)
		},
		genEmail(),
		genRole(),
	))

	properties.TestingRun(t)
}

// 权限矩阵表驱动测试
func TestAuthorize_Matrix(t *testing.T) {
	tests := []struct {
		name         string
		contribution Contribution
		operation    Operation
		want         bool
	}{
		{"owner read", ContributionOwner, OperationRead, true},
		{"owner update", ContributionOwner, OperationUpdate, true},
		{"owner delete", ContributionOwner, OperationDelete, true},
		{"owner share", ContributionOwner, OperationShare, true},
		{"writer read", ContributionWriter, OperationRead, true},
		{"writer update", ContributionWriter, OperationUpdate, true},
		{"writer delete", ContributionWriter, OperationDelete, false},
		{"writer share", ContributionWriter, OperationShare, false},
		{"reader read", ContributionReader, OperationRead, true},
		{"reader update", ContributionReader, OperationUpdate, false},
		{"reader delete", ContributionReader, OperationDelete, false},
		{"reader share", ContributionReader, OperationShare, false},
		{"none read", ContributionNone, OperationRead, false},
		{"none update", ContributionNone, OperationUpdate, false},
		{"none delete", ContributionNone, OperationDelete, false},
		{"none share", ContributionNone, OperationShare, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authorize(tt.contribution, tt.operation))
		})
	}
}

func TestResolveContribution_SharedRoles(t *testing.T) {
	note := &Note{
		ID:    "n1",
		Owner: "alice@example.com",
		Shares: map[string]Role{
			"bob@example.com":   RoleWriter,
			"carol@example.com": RoleReader,
		},
		Version: InitialVersion,
	}

	assert.Equal(t, ContributionOwner, ResolveContribution(note, "alice@example.com"))
	assert.Equal(t, ContributionWriter, ResolveContribution(note, "bob@example.com"))
	assert.Equal(t, ContributionReader, ResolveContribution(note, "carol@example.com"))
	assert.Equal(t, ContributionNone, ResolveContribution(note, "dave@example.com"))
	assert.Equal(t, ContributionNone, ResolveContribution(nil, "alice@example.com"))
}

func TestNote_ShareWith(t *testing.T) {
	note := &Note{
		ID:      "n1",
		Owner:   "alice@example.com",
		Version: InitialVersion,
	}

	// 属主不能被加入共享表
	assert.False(t, note.ShareWith("alice@example.com", RoleWriter))
	assert.Empty(t, note.Shares)

	// 正常授予
	assert.True(t, note.ShareWith("bob@example.com", RoleReader))
	assert.Equal(t, RoleReader, note.Shares["bob@example.com"])

	// 重复授予只保留最新角色
	assert.True(t, note.ShareWith("bob@example.com", RoleWriter))
	assert.Equal(t, RoleWriter, note.Shares["bob@example.com"])
	assert.Len(t, note.Shares, 1)
}

func TestNote_Unshare(t *testing.T) {
	note := &Note{
		ID:      "n1",
		Owner:   "alice@example.com",
		Shares:  map[string]Role{"bob@example.com": RoleWriter},
		Version: InitialVersion,
	}

	assert.True(t, note.Unshare("bob@example.com"))
	assert.Empty(t, note.Shares)

	// 未共享的邮箱移除是无操作
	assert.False(t, note.Unshare("bob@example.com"))
	assert.False(t, note.Unshare("carol@example.com"))
}
