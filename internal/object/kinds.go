package object

// Closed vocabularies accepted by the server. Invalid values fail at
// construction instead of being rejected remotely.
var (
	policyFrequencies = []string{
		"Once per computer",
		"Once per user per computer",
		"Once per user",
		"Once every day",
		"Once every week",
		"Once every month",
		"Ongoing",
	}

	policyRestartValues = []string{"no", "if_required", "immediate"}

	scriptPriorities = []string{"before", "after", "reboot"}

	ldapServerTypes = []string{
		"Active Directory",
		"Open Directory",
		"eDirectory",
		"Custom",
	}

	ldapAuthTypes = []string{"simple", "CRAM-MD5", "DIGEST-MD5", "none"}

	accountAccessLevels = []string{"Full Access", "Site Access", "Group Access"}

	accountPrivilegeSets = []string{"Administrator", "Auditor", "Enrollment Only", "Custom"}

	ssoUserMappings = []string{"USERNAME", "EMAIL"}

	ssoMetadataSources = []string{"FILE", "URL"}

	ssoUseForServices = []string{"jss", "enrollment", "self_service"}
)

var schemas = map[Kind]Schema{
	KindCategory: {
		kind: KindCategory,
		fields: map[string]FieldSchema{
			"priority": {Shape: ShapeInt},
		},
	},

	KindScript: {
		kind: KindScript,
		fields: map[string]FieldSchema{
			"category":        {Shape: ShapeString, Ref: KindCategory, RefRequired: true},
			"filename":        {Shape: ShapeString},
			"info":            {Shape: ShapeString},
			"notes":           {Shape: ShapeString},
			"priority":        {Shape: ShapeEnum, Enum: scriptPriorities},
			"os_requirements": {Shape: ShapeString},
			"contents":        {Shape: ShapeString},
			"parameters":      {Shape: ShapeStringList},
		},
	},

	KindSmartComputerGroup: {
		kind: KindSmartComputerGroup,
		fields: map[string]FieldSchema{
			"category": {Shape: ShapeString, Ref: KindCategory, RefRequired: true},
			"site":     {Shape: ShapeString},
			"criteria": {Shape: ShapeCriteria},
		},
	},

	KindPolicy: {
		kind: KindPolicy,
		fields: map[string]FieldSchema{
			"enabled":      {Shape: ShapeBool},
			"frequency":    {Shape: ShapeEnum, Enum: policyFrequencies},
			"category":     {Shape: ShapeString, Ref: KindCategory, RefRequired: true},
			"site":         {Shape: ShapeString},
			"target_drive": {Shape: ShapeString},
			"offline":      {Shape: ShapeBool},
			"restart":      {Shape: ShapeEnum, Enum: policyRestartValues},

			// Triggers are remodelled from the server's per-flag booleans
			// into one set; reserved names plus custom trigger strings.
			"triggers": {Shape: ShapeStringSet},

			"scope.all_computers":              {Shape: ShapeBool},
			"scope.computer_groups":            {Shape: ShapeStringSet, Ref: KindSmartComputerGroup, RefRequired: true},
			"scope.exclusions.computer_groups": {Shape: ShapeStringSet, Ref: KindSmartComputerGroup, RefRequired: true},

			"scripts.before": {Shape: ShapeScriptRuns, Ref: KindScript, RefRequired: true},
			"scripts.after":  {Shape: ShapeScriptRuns, Ref: KindScript, RefRequired: true},

			// Packages are not managed by this engine; the association is
			// soft and only warns when the target is missing.
			"packages.install": {Shape: ShapeStringSet, Ref: KindPackage, RefRequired: false},

			"maintenance.update_inventory": {Shape: ShapeBool},
			"self_service.enabled":         {Shape: ShapeBool},
		},
		required: []string{"frequency"},
	},

	KindAccount: {
		kind: KindAccount,
		fields: map[string]FieldSchema{
			"full_name":             {Shape: ShapeString},
			"email":                 {Shape: ShapeString},
			"access_level":          {Shape: ShapeEnum, Enum: accountAccessLevels},
			"privilege_set":         {Shape: ShapeEnum, Enum: accountPrivilegeSets},
			"force_password_change": {Shape: ShapeBool},
			"password":              {Shape: ShapeString, WriteOnly: true},
		},
	},

	KindLdapServer: {
		kind: KindLdapServer,
		fields: map[string]FieldSchema{
			"hostname":               {Shape: ShapeString},
			"port":                   {Shape: ShapeInt},
			"server_type":            {Shape: ShapeEnum, Enum: ldapServerTypes},
			"authentication_type":    {Shape: ShapeEnum, Enum: ldapAuthTypes},
			"use_ssl":                {Shape: ShapeBool},
			"open_close_timeout":     {Shape: ShapeInt},
			"search_timeout":         {Shape: ShapeInt},
			"referral_response":      {Shape: ShapeString},
			"use_wildcards":          {Shape: ShapeBool},
			"distinguished_username": {Shape: ShapeString},
			"password":               {Shape: ShapeString, WriteOnly: true},
			"user_mappings":          {Shape: ShapePairs},
			"group_mappings":         {Shape: ShapePairs},
		},
		required: []string{"hostname", "port", "server_type", "authentication_type"},
	},

	KindSsoSettings: {
		kind: KindSsoSettings,
		fields: map[string]FieldSchema{
			"provider":             {Shape: ShapeString},
			"entity_id":            {Shape: ShapeString},
			"metadata_source":      {Shape: ShapeEnum, Enum: ssoMetadataSources},
			"metadata":             {Shape: ShapeString},
			"metadata_filename":    {Shape: ShapeString},
			"user_mapping":         {Shape: ShapeEnum, Enum: ssoUserMappings},
			"user_attribute_name":  {Shape: ShapeString},
			"group_attribute_name": {Shape: ShapeString},
			"group_rdn_key":        {Shape: ShapeString},
			"session_timeout":      {Shape: ShapeInt},
			"use_for":              {Shape: ShapeStringSet, Enum: ssoUseForServices},
			"ldap_server":          {Shape: ShapeString, Ref: KindLdapServer, RefRequired: true},
		},
	},

	KindEnrollmentSettings: {
		kind: KindEnrollmentSettings,
		fields: map[string]FieldSchema{
			"skip_certificate_install":  {Shape: ShapeBool},
			"management_username":       {Shape: ShapeString},
			"management_password":       {Shape: ShapeString, WriteOnly: true},
			"create_management_account": {Shape: ShapeBool},
			"enable_ssh":                {Shape: ShapeBool},
			"launch_self_service":       {Shape: ShapeBool},
			"sign_quickadd":             {Shape: ShapeBool},
		},
	},
}

// SchemaFor returns the field schema for a kind. Unknown kinds return an
// empty schema, which rejects every field.
func SchemaFor(kind Kind) Schema {
	return schemas[kind]
}

// UseForServices exposes the SSO use_for vocabulary for loader-level
// validation ("jss" must accompany the other services).
func UseForServices() []string {
	return append([]string(nil), ssoUseForServices...)
}
