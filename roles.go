package blog

// IsValidRole checks if the role is one of the predefined roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, IsValidRole(role)
}

// RoleIsAtLeast checks if role meets the minimum required level
func RoleIsAtLeast(role, minRole UserRole) bool {
	roleHierarchy := map[UserRole]int{
		RoleGuest: 0,
		RoleUser:  1,
		RoleAdmin: 2,
	}

	currentLevel, exists := roleHierarchy[role]
	if !exists {
		return false
	}

	minLevel, exists := roleHierarchy[minRole]
	if !exists {
		return false
	}

	return currentLevel >= minLevel
}

// AssignableRoles returns the roles a user row can be created with.
// Guest is a derived identity, never stored.
func AssignableRoles() []UserRole {
	return []UserRole{RoleUser, RoleAdmin}
}

// IsValidCategory checks if the category is one of the fixed post categories
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryNews, CategoryTechnology, CategorySecurity, CategoryBusiness:
		return true
	default:
		return false
	}
}

// ParseCategory safely parses a string into a Category
func ParseCategory(categoryStr string) (Category, bool) {
	category := Category(categoryStr)
	return category, IsValidCategory(category)
}

// AllCategories returns the fixed category set
func AllCategories() []Category {
	return []Category{
		CategoryNews,
		CategoryTechnology,
		CategorySecurity,
		CategoryBusiness,
	}
}
