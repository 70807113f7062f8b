package entity

import "fmt"

// wireAssociations declares every relation between the freshly bound
// models of one registry. The registry cache calls it exactly once per
// build; declarations never live in the entity definitions themselves,
// so there is no import-order coupling and no chance of a relation
// being declared twice for one connection.
func wireAssociations(models map[string]*Model) error {
	w := &wiring{models: models}

	// Users, roles, teams.
	w.belongsTo("MasterUser", "Role", "Role", "role_id")
	w.belongsTo("MasterUser", "Manager", "MasterUser", "reports_to_id")
	w.hasMany("Role", "Permissions", "Permission", "role_id", Cascade)
	w.hasMany("Team", "Members", "TeamMember", "team_id", Cascade)
	w.belongsTo("TeamMember", "User", "MasterUser", "master_user_id")
	w.hasMany("MasterUser", "LoginHistories", "LoginHistory", "master_user_id", Cascade)
	w.hasMany("MasterUser", "ApiKeys", "ApiKey", "master_user_id", Cascade)
	w.hasMany("MasterUser", "Notifications", "Notification", "master_user_id", Cascade)

	// A tenant user owns many organizations; an organization has many
	// contact persons; a contact person optionally belongs to one
	// organization.
	w.hasMany("MasterUser", "Organizations", "Organization", "owner_id", SetNull)
	w.hasMany("Organization", "ContactPersons", "ContactPerson", "organization_id", SetNull)
	w.belongsTo("ContactPerson", "Organization", "Organization", "organization_id")
	w.belongsTo("ContactPerson", "Owner", "MasterUser", "owner_id")
	w.hasMany("Organization", "Notes", "OrganizationNote", "organization_id", Cascade)
	w.hasMany("Organization", "Documents", "OrganizationDocument", "organization_id", Cascade)
	w.belongsTo("Organization", "Industry", "Industry", "industry_id")

	// Leads.
	w.hasMany("MasterUser", "Leads", "Lead", "owner_id", SetNull)
	w.belongsTo("Lead", "Owner", "MasterUser", "owner_id")
	w.belongsTo("Lead", "Source", "LeadSource", "lead_source_id")
	w.belongsTo("Lead", "Status", "LeadStatus", "lead_status_id")
	w.belongsTo("Lead", "Organization", "Organization", "organization_id")
	w.hasMany("Lead", "Notes", "LeadNote", "lead_id", Cascade)
	w.hasMany("Lead", "Documents", "LeadDocument", "lead_id", Cascade)
	w.hasMany("Lead", "Activities", "Activity", "lead_id", SetNull)

	// Deals and pipelines.
	w.hasMany("Pipeline", "Stages", "Stage", "pipeline_id", Cascade)
	w.belongsTo("Stage", "Pipeline", "Pipeline", "pipeline_id")
	w.belongsTo("Deal", "Pipeline", "Pipeline", "pipeline_id")
	w.belongsTo("Deal", "Stage", "Stage", "stage_id")
	w.belongsTo("Deal", "Owner", "MasterUser", "owner_id")
	w.belongsTo("Deal", "Organization", "Organization", "organization_id")
	w.belongsTo("Deal", "ContactPerson", "ContactPerson", "contact_person_id")
	w.hasMany("Organization", "Deals", "Deal", "organization_id", SetNull)
	w.hasMany("Deal", "Notes", "DealNote", "deal_id", Cascade)
	w.hasMany("Deal", "Documents", "DealDocument", "deal_id", Cascade)
	w.hasMany("Deal", "Products", "DealProduct", "deal_id", Cascade)
	w.hasMany("Deal", "Participants", "DealParticipant", "deal_id", Cascade)
	w.belongsTo("DealProduct", "Product", "Product", "product_id")

	// Products.
	w.belongsTo("Product", "Category", "ProductCategory", "product_category_id")
	w.hasMany("ProductCategory", "Products", "Product", "product_category_id", SetNull)
	w.hasMany("Product", "Variants", "ProductVariant", "product_id", Cascade)
	w.hasMany("PriceBook", "Entries", "PriceBookEntry", "price_book_id", Cascade)
	w.belongsTo("PriceBookEntry", "Product", "Product", "product_id")

	// Activities.
	w.belongsTo("Activity", "Type", "ActivityType", "activity_type_id")
	w.belongsTo("Activity", "Owner", "MasterUser", "owner_id")
	w.belongsTo("Activity", "Lead", "Lead", "lead_id")
	w.belongsTo("Activity", "Deal", "Deal", "deal_id")
	w.belongsTo("Activity", "ContactPerson", "ContactPerson", "contact_person_id")
	w.belongsTo("Activity", "Organization", "Organization", "organization_id")
	w.hasOne("Activity", "Task", "Task", "activity_id", Cascade)
	w.hasOne("Activity", "Call", "Call", "activity_id", Cascade)
	w.hasOne("Activity", "Meeting", "Meeting", "activity_id", Cascade)
	w.hasMany("Meeting", "Participants", "MeetingParticipant", "meeting_id", Cascade)

	// Email.
	w.hasMany("MasterUser", "EmailAccounts", "EmailAccount", "master_user_id", Cascade)
	w.hasMany("EmailAccount", "Messages", "EmailMessage", "email_account_id", Cascade)
	w.hasMany("EmailAccount", "Labels", "EmailLabel", "email_account_id", Cascade)
	w.hasMany("EmailMessage", "Attachments", "EmailAttachment", "email_message_id", Cascade)
	w.belongsTo("EmailMessage", "Lead", "Lead", "lead_id")
	w.belongsTo("EmailMessage", "Deal", "Deal", "deal_id")

	// Documents, folders, tags.
	w.hasMany("Folder", "Documents", "Document", "folder_id", SetNull)
	w.hasMany("Folder", "Subfolders", "Folder", "parent_id", Cascade)
	w.belongsTo("Document", "File", "File", "file_id")
	w.hasMany("Tag", "Taggings", "Tagging", "tag_id", Cascade)

	// Reference data.
	w.hasMany("Country", "States", "State", "country_id", Cascade)
	w.hasMany("State", "Cities", "City", "state_id", Cascade)

	// Filters and custom fields.
	w.hasMany("Filter", "Conditions", "FilterCondition", "filter_id", Cascade)
	w.hasMany("CustomField", "Values", "CustomFieldValue", "custom_field_id", Cascade)

	// Webhooks, imports, reporting, goals.
	w.hasMany("Webhook", "Logs", "WebhookLog", "webhook_id", Cascade)
	w.hasMany("ImportJob", "Rows", "ImportRow", "import_job_id", Cascade)
	w.hasMany("Report", "Schedules", "ReportSchedule", "report_id", Cascade)
	w.hasMany("Dashboard", "Widgets", "DashboardWidget", "dashboard_id", Cascade)
	w.belongsTo("DashboardWidget", "Report", "Report", "report_id")
	w.hasMany("Goal", "Progress", "GoalProgress", "goal_id", Cascade)

	// Calendar and drive sync.
	w.hasMany("CalendarAccount", "Events", "CalendarEvent", "calendar_account_id", Cascade)
	w.hasMany("DriveAccount", "Files", "DriveFile", "drive_account_id", Cascade)

	return w.err
}

// wiring accumulates declarations and stops at the first invalid one.
// Every declaration is checked against the definition table: a typo in
// an entity name or a foreign key that is not a real column fails the
// registry build instead of failing some later query.
type wiring struct {
	models map[string]*Model
	err    error
}

func (w *wiring) hasMany(source, name, target, foreignKey string, onDelete ReferentialAction) {
	w.declare(source, Relation{
		Kind:       HasMany,
		Name:       name,
		Target:     target,
		ForeignKey: foreignKey,
		OnDelete:   onDelete,
		OnUpdate:   Cascade,
	})
}

func (w *wiring) hasOne(source, name, target, foreignKey string, onDelete ReferentialAction) {
	w.declare(source, Relation{
		Kind:       HasOne,
		Name:       name,
		Target:     target,
		ForeignKey: foreignKey,
		OnDelete:   onDelete,
		OnUpdate:   Cascade,
	})
}

func (w *wiring) belongsTo(source, name, target, foreignKey string) {
	w.declare(source, Relation{
		Kind:       BelongsTo,
		Name:       name,
		Target:     target,
		ForeignKey: foreignKey,
		OnUpdate:   Cascade,
	})
}

func (w *wiring) declare(source string, rel Relation) {
	if w.err != nil {
		return
	}

	src, ok := w.models[source]
	if !ok {
		w.err = fmt.Errorf("wire associations: unknown source entity %q", source)
		return
	}
	target, ok := w.models[rel.Target]
	if !ok {
		w.err = fmt.Errorf("wire associations: %s.%s targets unknown entity %q", source, rel.Name, rel.Target)
		return
	}
	if _, exists := src.byName[rel.Name]; exists {
		w.err = fmt.Errorf("wire associations: %s.%s declared twice", source, rel.Name)
		return
	}

	// The foreign key lives on the child side.
	fkOwner := target
	if rel.Kind == BelongsTo {
		fkOwner = src
	}
	if !fkOwner.hasColumn(rel.ForeignKey) {
		w.err = fmt.Errorf("wire associations: %s.%s: %s has no column %q",
			source, rel.Name, fkOwner.def.Name, rel.ForeignKey)
		return
	}

	src.relations = append(src.relations, rel)
	src.byName[rel.Name] = rel
}
