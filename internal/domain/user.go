// SPDX-FileCopyrightText: 2025 shiftforge authors
// SPDX-License-Identifier: Apache-2.0

package domain

// User is a person who can be scheduled to work on a Task. A User owns
// its Rules; deleting a User drops every Rule it owns.
type User struct {
	ID   UserID
	Name string

	// Availability holds this user's owned Rules, keyed by RuleID.
	Availability map[RuleID]Rule

	// UserPrefs expresses this user's preference towards sharing a slot
	// with each other user it has an opinion about. A missing entry is
	// implicitly PreferenceNone.
	UserPrefs map[UserID]Preference

	// Skills maps a skill this user has some proficiency with to that
	// proficiency. Skills the user has zero proficiency with are
	// omitted rather than stored as zero.
	Skills map[SkillID]Proficiency
}

// NewUser returns an empty User ready to accept Rules, prefs, and skills.
func NewUser(id UserID, name string) User {
	return User{
		ID:           id,
		Name:         name,
		Availability: make(map[RuleID]Rule),
		UserPrefs:    make(map[UserID]Preference),
		Skills:       make(map[SkillID]Proficiency),
	}
}

// ProficiencyFor returns the user's proficiency with skill, or
// ProficiencyZero if the user has no entry for it.
func (u User) ProficiencyFor(skill SkillID) Proficiency {
	if p, ok := u.Skills[skill]; ok {
		return p
	}
	return ProficiencyZero
}

// PreferenceTowards returns u's preference towards sharing a slot with
// other, or PreferenceNone if unspecified.
func (u User) PreferenceTowards(other UserID) Preference {
	if p, ok := u.UserPrefs[other]; ok {
		return p
	}
	return PreferenceNone
}

// MaxMatchingPreference returns the highest preference among this user's
// Rules whose Contains(interval) holds, and whether any rule matched at
// all. Used by the Scheduling Engine to build the per-slot candidate set
// (spec.md §4.5 step 1).
func (u User) MaxMatchingPreference(interval TimeInterval) (Preference, bool) {
	best := PreferenceMustNot
	found := false
	for _, rule := range u.Availability {
		if !rule.Contains(interval) {
			continue
		}
		if !found || rule.Pref.Compare(best) > 0 {
			best = rule.Pref
			found = true
		}
	}
	return best, found
}
