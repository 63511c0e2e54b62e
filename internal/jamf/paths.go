package jamf

import (
	"github.com/mosen/jamfsync/internal/object"
)

// resourcePath maps a kind and name to its API path. Name-keyed lookups
// are used throughout so the engine never needs to track server IDs;
// singleton settings resources have no name component. Paths are returned
// unescaped: the URL layer encodes them on serialization.
func resourcePath(kind object.Kind, name string) string {
	switch kind {
	case object.KindCategory:
		return "/JSSResource/categories/name/" + name
	case object.KindScript:
		return "/JSSResource/scripts/name/" + name
	case object.KindSmartComputerGroup:
		return "/JSSResource/computergroups/name/" + name
	case object.KindPolicy:
		return "/JSSResource/policies/name/" + name
	case object.KindLdapServer:
		return "/JSSResource/ldapservers/name/" + name
	case object.KindAccount:
		return "/JSSResource/accounts/username/" + name
	case object.KindPackage:
		return "/JSSResource/packages/name/" + name
	case object.KindSsoSettings:
		return "/JSSResource/ssosettings"
	case object.KindEnrollmentSettings:
		return "/JSSResource/enrollmentsettings"
	}
	return "/JSSResource/" + string(kind) + "/name/" + name
}

// rootElement is the XML document element for each kind.
func rootElement(kind object.Kind) string {
	switch kind {
	case object.KindSmartComputerGroup:
		return "computer_group"
	default:
		return string(kind)
	}
}
