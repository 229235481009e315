// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package dataverse

// JSON tags follow the Dataverse attribute names, lookup values included.

type Bot struct {
	ID                 string `json:"botid,omitempty"`
	Name               string `json:"name,omitempty"`
	SchemaName         string `json:"schemaname,omitempty"`
	Configuration      string `json:"configuration,omitempty"`
	Language           int    `json:"language,omitempty"`
	Template           string `json:"template,omitempty"`
	RuntimeProvider    int    `json:"runtimeprovider,omitempty"`
	AccessControl      int    `json:"accesscontrolpolicy,omitempty"`
	AuthenticationMode int    `json:"authenticationmode,omitempty"`
	AuthTrigger        int    `json:"authenticationtrigger,omitempty"`
	AuthConfiguration  string `json:"authenticationconfiguration,omitempty"`
	OwnerID            string `json:"_ownerid_value,omitempty"`
	PublishedOn        string `json:"publishedon,omitempty"`
	CreatedOn          string `json:"createdon,omitempty"`
	ModifiedOn         string `json:"modifiedon,omitempty"`
}

type BotComponent struct {
	ID            string `json:"botcomponentid,omitempty"`
	Name          string `json:"name,omitempty"`
	SchemaName    string `json:"schemaname,omitempty"`
	ComponentType int    `json:"componenttype"`
	Data          string `json:"data,omitempty"`
	Content       string `json:"content,omitempty"`
	Description   string `json:"description,omitempty"`
	Category      string `json:"category,omitempty"`
	Language      int    `json:"language,omitempty"`
	StateCode     int    `json:"statecode,omitempty"`
	StatusCode    int    `json:"statuscode,omitempty"`
	ParentBotID   string `json:"_parentbotid_value,omitempty"`
	CreatedOn     string `json:"createdon,omitempty"`
	ModifiedOn    string `json:"modifiedon,omitempty"`
}

type ConnectionReference struct {
	ID           string `json:"connectionreferenceid,omitempty"`
	DisplayName  string `json:"connectionreferencedisplayname,omitempty"`
	LogicalName  string `json:"connectionreferencelogicalname,omitempty"`
	ConnectorID  string `json:"connectorid,omitempty"`
	ConnectionID string `json:"connectionid,omitempty"`
	Description  string `json:"description,omitempty"`
	CreatedOn    string `json:"createdon,omitempty"`
}

type Solution struct {
	ID           string `json:"solutionid,omitempty"`
	UniqueName   string `json:"uniquename,omitempty"`
	FriendlyName string `json:"friendlyname,omitempty"`
	Version      string `json:"version,omitempty"`
	IsManaged    bool   `json:"ismanaged,omitempty"`
	PublisherID  string `json:"_publisherid_value,omitempty"`
	InstalledOn  string `json:"installedon,omitempty"`
}

type Publisher struct {
	ID                  string `json:"publisherid,omitempty"`
	UniqueName          string `json:"uniquename,omitempty"`
	FriendlyName        string `json:"friendlyname,omitempty"`
	CustomizationPrefix string `json:"customizationprefix,omitempty"`
}

type SolutionComponent struct {
	ID            string `json:"solutioncomponentid,omitempty"`
	ObjectID      string `json:"objectid,omitempty"`
	ComponentType int    `json:"componenttype,omitempty"`
	SolutionID    string `json:"_solutionid_value,omitempty"`
}

type Workflow struct {
	ID          string `json:"workflowid,omitempty"`
	Name        string `json:"name,omitempty"`
	Category    int    `json:"category,omitempty"`
	Type        int    `json:"type,omitempty"`
	StateCode   int    `json:"statecode,omitempty"`
	Description string `json:"description,omitempty"`
	ClientData  string `json:"clientdata,omitempty"`
	CreatedOn   string `json:"createdon,omitempty"`
	ModifiedOn  string `json:"modifiedon,omitempty"`
}

type AIModel struct {
	ID           string `json:"msdyn_aimodelid,omitempty"`
	Name         string `json:"msdyn_name,omitempty"`
	TemplateID   string `json:"_msdyn_templateid_value,omitempty"`
	IsManaged    bool   `json:"ismanaged,omitempty"`
	StateCode    int    `json:"statecode,omitempty"`
	OwnerDisplay string `json:"_ownerid_value@OData.Community.Display.V1.FormattedValue,omitempty"`
	CreatedOn    string `json:"createdon,omitempty"`
	ModifiedOn   string `json:"modifiedon,omitempty"`
}

type AIConfiguration struct {
	ID            string `json:"msdyn_aiconfigurationid,omitempty"`
	Name          string `json:"msdyn_name,omitempty"`
	Configuration string `json:"msdyn_customconfiguration,omitempty"`
	AIModelID     string `json:"_msdyn_aimodelid_value,omitempty"`
	StateCode     int    `json:"statecode,omitempty"`
	StatusCode    int    `json:"statuscode"`
}

type ConversationTranscript struct {
	ID        string `json:"conversationtranscriptid,omitempty"`
	Name      string `json:"name,omitempty"`
	Content   string `json:"content,omitempty"`
	BotID     string `json:"_bot_conversationtranscriptid_value,omitempty"`
	StartTime string `json:"conversationstarttime,omitempty"`
	CreatedOn string `json:"createdon,omitempty"`
}

// Connector is a custom connector record stored in Dataverse.
type Connector struct {
	ID                  string `json:"connectorid,omitempty"`
	Name                string `json:"name,omitempty"`
	DisplayName         string `json:"displayname,omitempty"`
	Description         string `json:"description,omitempty"`
	ConnectorType       int    `json:"connectortype,omitempty"`
	OpenAPIDefinition   string `json:"openapidefinition,omitempty"`
	ConnectorInternalID string `json:"connectorinternalid,omitempty"`
	CreatedOn           string `json:"createdon,omitempty"`
}
