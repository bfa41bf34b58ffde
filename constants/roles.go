package constants

// DefaultRoleCode is the role every self-registered user gets
const DefaultRoleCode = "user"

// DefaultRoleName is the display name of the default role
const DefaultRoleName = "User"
