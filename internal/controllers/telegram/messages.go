package telegram

// Textos do bot. Mantidos num lugar só para facilitar revisão.

const (
	msgBoasVindas = "Olá, %s! 👋\n\n" +
		"Este é o sistema de O.S. Use o menu abaixo para abrir uma nova " +
		"ordem de serviço ou pedir ajuda."

	msgAjuda = "Como funciona:\n\n" +
		"📋 *Abrir Nova O\\.S\\.* — inicia o passo a passo de abertura\\. " +
		"Você vai informar localização, cidade, motivo e as fotos pedidas\\.\n" +
		"❌ *Cancelar Operação* — abandona a abertura em andamento\\.\n\n" +
		"Qualquer dúvida, fale com o monitoramento\\."

	msgNaoCadastrado = "Seu Telegram não está vinculado a nenhum usuário do sistema. " +
		"Peça ao administrador para cadastrar seu telegram_id."

	msgOperacaoCancelada = "Operação cancelada. Quando precisar, abra uma nova O.S pelo menu."

	msgNadaParaCancelar = "Não há operação em andamento."

	msgPedirLocalizacao = "Vamos abrir a O.S! 📍\n\n" +
		"Primeiro, envie sua *localização atual* usando o botão abaixo\\. " +
		"Ative o GPS para a precisão ficar boa\\."

	msgPrecisaoRuim = "A precisão do GPS ficou em %.0f m, acima do limite de %.0f m. " +
		"Vá para um local aberto e envie a localização de novo."

	msgLocalizacaoInvalida = "Preciso da sua localização pelo botão do Telegram, não de texto."

	msgPedirCidade = "Localização recebida ✅\n\nAgora escolha a *cidade* do atendimento:"

	msgCidadeInvalida = "Cidade não atendida. Escolha uma das opções do teclado."

	msgPedirMotivo = "Qual o *motivo da abertura*?"

	msgMotivoInvalido = "Motivo não reconhecido. Escolha uma das opções do teclado."

	msgPedirPrazo = "Esse tipo de O\\.S tem prazo de atendimento\\. " +
		"Informe o *prazo em horas* \\(número inteiro, ex\\.: 4\\):"

	msgPrazoInvalido = "Prazo inválido. Envie um número inteiro de horas maior que zero."

	msgPedirPortaPlaca = "Informe a *porta/placa da OLT* afetada (ex.: 1/2/7):"

	msgPedirFotoPowerMeter = "Envie a *foto do power meter* com a medição no local\\."

	msgPedirFotoCaixa = "Agora a *foto da caixa* \\(CTO\\)\\."

	msgPedirPrintOS = "Envie o *print da O\\.S do cliente* no sistema\\."

	msgPedirPPPoE = "Informe o *PPPoE do cliente*:"

	msgPrecisoDeFoto = "Preciso de uma foto aqui. Envie a imagem pela câmera ou galeria."

	msgFalhaUpload = "Não consegui baixar a foto agora. Tente enviar de novo."

	msgConfirmacao = "Confere os dados? 👇\n\n%s\nEnvie *Confirmar* para abrir a O\\.S ou *Cancelar Operação* para abandonar\\."

	msgConfirmacaoInvalida = "Use os botões: Confirmar ou Cancelar Operação."

	msgOSCriada = "✅ O\\.S aberta com sucesso\\!\n\nNúmero: *%s*\n\nA equipe de execução já foi notificada\\."

	msgErroCriarOS = "Não consegui abrir a O.S: %s"

	msgUsaMenu = "Não entendi. Use o menu abaixo ou /help."
)

const (
	btnAbrirOS   = "📋 Abrir Nova O.S."
	btnAjuda     = "❓ Ajuda"
	btnCancelar  = "❌ Cancelar Operação"
	btnConfirmar = "✅ Confirmar"
	btnLocal     = "📍 Enviar Localização"
)

var motivosNormais = []string{
	"Caixa sem sinal",
	"Ampliação",
	"Troca de equipamento",
	"Sem conexão",
}

var motivosComPrazo = []string{
	"Rompimento",
	"Manutenção",
}
