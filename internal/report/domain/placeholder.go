package domain

// Placeholder nom d'un point de substitution du modèle de document
type Placeholder string

// Token forme textuelle dans le modèle: {{nom}}
func (p Placeholder) Token() string {
	return "{{" + string(p) + "}}"
}

// Points de substitution structurels
const (
	PhEventName     Placeholder = "nome_evento"
	PhStartDate     Placeholder = "data_inicio"
	PhEndDate       Placeholder = "data_fim"
	PhViewTitle     Placeholder = "tipo_visao"
	PhCategoryLabel Placeholder = "categoria_visao"
)

// Totaux
const (
	PhLeads       Placeholder = "total_contatos"
	PhNotViewed   Placeholder = "total_nao_vistos"
	PhInvitesSent Placeholder = "total_enviados"
	PhNotYetSent  Placeholder = "total_envio_pendente"
	PhPending     Placeholder = "total_pendentes"
	PhConfirmed   Placeholder = "total_confirmados"
	PhDeclined    Placeholder = "total_declinados"
	PhNoResponse  Placeholder = "total_sem_resposta"
	PhSellers     Placeholder = "total_vendedores"
	PhAttendance  Placeholder = "total_presencas"
	PhTestDrives  Placeholder = "total_testdrives"
	PhSales       Placeholder = "total_vendas"
)

// Taux de conversion
const (
	PhSentToConfirmed       Placeholder = "perc_enviados_confirmados"
	PhConfirmedToAttendance Placeholder = "perc_confirmados_presencas"
	PhAttendanceToTestDrive Placeholder = "perc_presencas_testdrives"
	PhAttendanceToSale      Placeholder = "perc_presencas_vendas"
	PhTestDriveToSale       Placeholder = "perc_testdrives_vendas"
)

// PhDetailTable ancre de la table de détail dans le modèle
const PhDetailTable Placeholder = "tabela_geral"

// Context correspondance point de substitution -> valeur formatée
type Context map[Placeholder]string

// Merge copie les entrées de other dans c
func (c Context) Merge(other Context) Context {
	for k, v := range other {
		c[k] = v
	}
	return c
}
