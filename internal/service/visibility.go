package service

import (
	"podium/internal/auth"
	"podium/internal/domain/models"
)

// CanSee reports whether caller may read post. Public posts are readable by
// every token; private posts need private:read and the caller in the audience.
func CanSee(caller *auth.Caller, post *models.Post) bool {
	if post.Public {
		return true
	}
	return caller.Can(auth.ScopePrivateRead) && post.InAudience(caller.PersonID)
}

// CanInteract reports whether caller may comment on or like a post it can see.
func CanInteract(caller *auth.Caller, post *models.Post) bool {
	return post.Public || caller.Can(auth.ScopePrivateModify)
}
