package cli

func regCommands() {
	//Wallet
	walletCmd.AddCommand(wallet_newCmd)
	walletCmd.AddCommand(wallet_passwdCmd)
	walletCmd.AddCommand(wallet_showCmd)
	walletCmd.AddCommand(wallet_listCmd)

	//Keys
	keyCmd.AddCommand(key_newCmd)
	keyCmd.AddCommand(key_listCmd)

	//Identity
	identityCmd.AddCommand(identity_createCmd)
	identityCmd.AddCommand(identity_showCmd)

	//Root
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(identityCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
}
